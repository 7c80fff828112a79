package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	databasepb "cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"github.com/golang/glog"

	"github.com/murkotick/product-live-catalog/internal/config"
)

// Applies the DDL in migrations/001_initial_schema.sql to the Spanner
// database named by SPANNER_DATABASE (typically the emulator for local dev).
//
// Usage (emulator):
//
//	export SPANNER_EMULATOR_HOST=localhost:9010
//	export SPANNER_DATABASE=projects/test-project/instances/emulator-instance/databases/test-db
//	go run ./cmd/migrate -logtostderr
func main() {
	dir := flag.String("dir", "migrations", "directory holding the schema file")
	flag.Parse()
	defer glog.Flush()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := config.Load().SpannerDatabase

	ddlPath := filepath.Join(*dir, "001_initial_schema.sql")
	stmts, err := readDDLStatements(ddlPath)
	if err != nil {
		glog.Exitf("read DDL: %v", err)
	}
	if len(stmts) == 0 {
		glog.Exitf("no DDL statements found in %s", ddlPath)
	}

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		glog.Exitf("database admin client: %v", err)
	}
	defer admin.Close()

	op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   db,
		Statements: stmts,
	})
	if err != nil {
		glog.Exitf("UpdateDatabaseDdl: %v", err)
	}
	if err := op.Wait(ctx); err != nil {
		glog.Exitf("UpdateDatabaseDdl wait: %v", err)
	}

	glog.Infof("applied %d DDL statements to %s", len(stmts), db)
}

// readDDLStatements splits a schema file on ';', dropping blanks and
// "--" comment lines.
func readDDLStatements(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sql := strings.ReplaceAll(string(b), "\r\n", "\n")

	var kept []string
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	parts := strings.Split(strings.Join(kept, "\n"), ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out, nil
}
