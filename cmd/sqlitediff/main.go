// Package main contains the sqlitediff CLI. It uses cobra, the same as
// the teacher's own cmd/smf.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"sqlitediff/internal/builder"
	"sqlitediff/internal/cdc"
	_ "sqlitediff/internal/cdc/debezium"
	_ "sqlitediff/internal/cdc/maxwell"
	_ "sqlitediff/internal/cdc/pgwalstream"
	_ "sqlitediff/internal/cdc/wal2json"
	"sqlitediff/internal/config"
	"sqlitediff/internal/core"
	"sqlitediff/internal/output"
	"sqlitediff/internal/parser"
	"sqlitediff/internal/reverse"
	"sqlitediff/internal/schemaprovider/ddlprovider"
	"sqlitediff/internal/schemaprovider/mysqlintrospect"
	"sqlitediff/internal/sqladapter"
	"sqlitediff/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqlitediff",
		Short: "Build, inspect, and transform SQLite session changesets and patchsets",
	}

	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(sqlCmd())
	rootCmd.AddCommand(reverseCmd())
	rootCmd.AddCommand(convertCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type encodeFlags struct {
	schemaPath string
	dbDSN      string
	ddlPath    string
	outFile    string
	patchset   bool
}

func encodeCmd() *cobra.Command {
	flags := &encodeFlags{}
	cmd := &cobra.Command{
		Use:   "encode <statements.sql>",
		Short: "Compile a SQL file's INSERT/UPDATE/DELETE statements into a changeset or patchset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runEncode(args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.schemaPath, "schema", "", "TOML schema file describing the tables involved")
	cmd.Flags().StringVar(&flags.dbDSN, "db", "", "MySQL DSN to introspect table schemas from, instead of --schema")
	cmd.Flags().StringVar(&flags.ddlPath, "ddl", "", "File of CREATE TABLE statements to derive table schemas from, instead of --schema")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Output file for the binary diff-set (default: stdout)")
	cmd.Flags().BoolVar(&flags.patchset, "patchset", false, "Emit a patchset instead of a changeset")
	return cmd
}

func runEncode(sqlPath string, flags *encodeFlags) error {
	schemas, err := resolveSchemas(flags.schemaPath, flags.dbDSN, flags.ddlPath)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	sqlText, err := os.ReadFile(sqlPath)
	if err != nil {
		return fmt.Errorf("encode: read %q: %w", sqlPath, err)
	}

	b := builder.New()
	if err := sqladapter.FromSQL(b, string(sqlText), schemas); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	data, err := serializeBuilder(b, flags.patchset)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return writeBytes(data, flags.outFile)
}

type decodeFlags struct {
	format string
}

func decodeCmd() *cobra.Command {
	flags := &decodeFlags{}
	cmd := &cobra.Command{
		Use:   "decode <diff-set.bin>",
		Short: "Print a binary changeset or patchset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDecode(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: human, json, or summary")
	return cmd
}

func runDecode(path string, flags *decodeFlags) error {
	parsed, err := parseFile(path)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	text, err := formatter.Format(parsed)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Print(text)
	return nil
}

type sqlFlags struct {
	schemaPath string
	dbDSN      string
	ddlPath    string
}

func sqlCmd() *cobra.Command {
	flags := &sqlFlags{}
	cmd := &cobra.Command{
		Use:   "sql <changeset.bin>",
		Short: "Render a binary changeset as SQL statements",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSQL(args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.schemaPath, "schema", "", "TOML schema file naming each table's columns")
	cmd.Flags().StringVar(&flags.dbDSN, "db", "", "MySQL DSN to introspect table schemas from, instead of --schema")
	cmd.Flags().StringVar(&flags.ddlPath, "ddl", "", "File of CREATE TABLE statements to derive table schemas from, instead of --schema")
	return cmd
}

func runSQL(path string, flags *sqlFlags) error {
	schemas, err := resolveSchemas(flags.schemaPath, flags.dbDSN, flags.ddlPath)
	if err != nil {
		return fmt.Errorf("sql: %w", err)
	}

	parsed, err := parseFile(path)
	if err != nil {
		return fmt.Errorf("sql: %w", err)
	}

	text, err := sqladapter.ToSQL(parsed.DiffSet, schemas)
	if err != nil {
		return fmt.Errorf("sql: %w", err)
	}
	fmt.Print(text)
	return nil
}

type reverseFlags struct {
	outFile string
}

func reverseCmd() *cobra.Command {
	flags := &reverseFlags{}
	cmd := &cobra.Command{
		Use:   "reverse <changeset.bin>",
		Short: "Produce the changeset that undoes another changeset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReverse(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Output file for the reversed changeset (default: stdout)")
	return cmd
}

func runReverse(path string, flags *reverseFlags) error {
	parsed, err := parseFile(path)
	if err != nil {
		return fmt.Errorf("reverse: %w", err)
	}
	reversed, err := reverse.Reverse(parsed.DiffSet)
	if err != nil {
		return fmt.Errorf("reverse: %w", err)
	}
	data, err := wire.Serialize(reversed)
	if err != nil {
		return fmt.Errorf("reverse: %w", err)
	}
	return writeBytes(data, flags.outFile)
}

type convertFlags struct {
	from       string
	schemaPath string
	dbDSN      string
	ddlPath    string
	outFile    string
	patchset   bool
}

func convertCmd() *cobra.Command {
	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <event.json>",
		Short: "Convert a CDC event into a changeset or patchset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.from, "from", "", "CDC source format: wal2json, debezium, maxwell, or pg_walstream (required)")
	cmd.Flags().StringVar(&flags.schemaPath, "schema", "", "TOML schema file describing the tables involved")
	cmd.Flags().StringVar(&flags.dbDSN, "db", "", "MySQL DSN to introspect table schemas from, instead of --schema")
	cmd.Flags().StringVar(&flags.ddlPath, "ddl", "", "File of CREATE TABLE statements to derive table schemas from, instead of --schema")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Output file for the binary diff-set (default: stdout)")
	cmd.Flags().BoolVar(&flags.patchset, "patchset", false, "Emit a patchset instead of a changeset")
	return cmd
}

func runConvert(path string, flags *convertFlags) error {
	if flags.from == "" {
		return fmt.Errorf("convert: --from is required")
	}
	schemas, err := resolveSchemas(flags.schemaPath, flags.dbDSN, flags.ddlPath)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	source, err := cdc.Lookup(flags.from)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	event, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("convert: read %q: %w", path, err)
	}

	b := builder.New()
	if err := source(b, event, schemas); err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	data, err := serializeBuilder(b, flags.patchset)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return writeBytes(data, flags.outFile)
}

func loadSchemas(path string) (*sqladapter.StaticSchemaProvider, error) {
	schemas, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema %q: %w", path, err)
	}
	return sqladapter.NewStaticSchemaProvider(schemas), nil
}

// resolveSchemas picks the table-schema source for a subcommand: a TOML
// file via --schema, CREATE TABLE text via --ddl, or live introspection
// of a MySQL database via --db. Exactly one of the three must be given.
func resolveSchemas(schemaPath, dbDSN, ddlPath string) (sqladapter.SchemaProvider, error) {
	given := 0
	for _, v := range []string{schemaPath, dbDSN, ddlPath} {
		if v != "" {
			given++
		}
	}
	if given > 1 {
		return nil, fmt.Errorf("--schema, --db, and --ddl are mutually exclusive")
	}

	switch {
	case dbDSN != "":
		db, err := sql.Open("mysql", dbDSN)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", dbDSN, err)
		}
		return mysqlintrospect.New(context.Background(), db), nil
	case ddlPath != "":
		ddl, err := os.ReadFile(ddlPath)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", ddlPath, err)
		}
		return ddlprovider.Parse(string(ddl))
	case schemaPath != "":
		return loadSchemas(schemaPath)
	default:
		return nil, fmt.Errorf("one of --schema, --db, or --ddl is required")
	}
}

func parseFile(path string) (*core.ParsedDiffSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return parser.Parse(data)
}

func serializeBuilder(b *builder.DiffSetBuilder, patchset bool) ([]byte, error) {
	var d *core.DiffSet
	if patchset {
		d = b.PatchSet()
	} else {
		d = b.ChangeSet()
	}
	return wire.Serialize(d)
}

func writeBytes(data []byte, outFile string) error {
	if outFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0o644)
}
