package store

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/hygload/internal/core"
)

const header = "id,hip,hd,hr,gl,bf,proper,ra,dec,dist,pmra,pmdec,rv,mag,absmag,spect,ci,x,y,z,vx,vy,vz,rarad,decrad,pmrarad,pmdecrad,bayer,flam,con,comp,comp_primary,base,lum,var,var_min,var_max"

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"})
	if !errors.Is(err, core.ErrFatal) {
		t.Fatalf("Open() error = %v, want ErrFatal", err)
	}
	if !strings.Contains(err.Error(), "sqlite") {
		t.Errorf("error should list known drivers: %v", err)
	}
}

func TestOpenUnknownKeyPolicy(t *testing.T) {
	_, err := Open(context.Background(), Config{
		Driver:    "sqlite",
		Path:      filepath.Join(t.TempDir(), "hyg.sqlite"),
		KeyPolicy: "natural",
	})
	if !errors.Is(err, core.ErrFatal) {
		t.Errorf("Open() error = %v, want ErrFatal", err)
	}
}

func TestOpenPostgresWithoutURL(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres"})
	if !errors.Is(err, core.ErrFatal) {
		t.Errorf("Open() error = %v, want ErrFatal", err)
	}
}

func TestDrivers(t *testing.T) {
	got := Drivers()
	if len(got) != 2 || got[0] != "postgres" || got[1] != "sqlite" {
		t.Errorf("Drivers() = %v, want [postgres sqlite]", got)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() with a taken name should panic")
		}
	}()
	Register("sqlite", openSQLite)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Table != DefaultTable || cfg.KeyPolicy != KeySource {
		t.Errorf("withDefaults() = %+v", cfg)
	}
	if cfg.ConnectTimeout <= 0 || cfg.MaxConns <= 0 {
		t.Errorf("withDefaults() left zero limits: %+v", cfg)
	}
}

// ingestFile runs the full pipeline over content into a fresh SQLite store.
func ingestFile(t *testing.T, content string) (*SQLiteStore, *core.Report) {
	t.Helper()
	st := openTestSQLite(t, KeySource)

	src, err := core.NewLineSource("hyg.csv", strings.NewReader(content))
	if err != nil {
		t.Fatalf("NewLineSource() error = %v", err)
	}
	report, err := core.NewIngester(st, core.Options{}).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return st, report
}

func countRows(t *testing.T, st *SQLiteStore) int64 {
	t.Helper()
	n, err := st.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	return n
}

func TestIngestWellFormedRowEndToEnd(t *testing.T) {
	st, report := ingestFile(t, header+"\n"+strings.Join(sampleFields(map[int]string{15: "F5", 29: "Ori"}), ",")+"\n")

	if report.Persisted != 1 || countRows(t, st) != 1 {
		t.Fatalf("Persisted = %d, rows = %d, want 1", report.Persisted, countRows(t, st))
	}

	var (
		id, hip    int64
		spect, con string
		dec        float64
	)
	err := st.DB().QueryRow(`SELECT id, hip, spect, con, "dec" FROM stars`).Scan(&id, &hip, &spect, &con, &dec)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 || hip != 32349 || spect != "F5" || con != "Ori" || dec != -16.716116 {
		t.Errorf("row = %d, %d, %q, %q, %v", id, hip, spect, con, dec)
	}
}

func TestIngestEmptyColorIndexEndToEnd(t *testing.T) {
	st, report := ingestFile(t, header+"\n"+strings.Join(sampleFields(map[int]string{16: ""}), ",")+"\n")

	if report.Persisted != 1 {
		t.Fatalf("Persisted = %d, want 1", report.Persisted)
	}

	var ci sql.NullFloat64
	var mag float64
	if err := st.DB().QueryRow(`SELECT ci, mag FROM stars`).Scan(&ci, &mag); err != nil {
		t.Fatal(err)
	}
	if ci.Valid && !math.IsNaN(ci.Float64) {
		t.Errorf("ci = %v, want absent", ci.Float64)
	}
	if mag != -1.44 {
		t.Errorf("mag = %v, want -1.44", mag)
	}
}

func TestIngestShortRowEndToEnd(t *testing.T) {
	short := strings.Join(sampleFields(nil)[:36], ",")
	st, report := ingestFile(t, header+"\n"+short+"\n")

	if n := countRows(t, st); n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}
}

func TestIngestBadFloatEndToEnd(t *testing.T) {
	bad := strings.Join(sampleFields(map[int]string{0: "2", 7: "abc"}), ",")
	good := strings.Join(sampleFields(map[int]string{0: "3"}), ",")
	st, report := ingestFile(t, header+"\n"+bad+"\n"+good+"\n")

	if report.Rejected != 1 || len(report.FailedRows) != 1 {
		t.Fatalf("Rejected = %d, FailedRows = %d, want 1", report.Rejected, len(report.FailedRows))
	}
	if report.FailedRows[0].Code != "REC002" {
		t.Errorf("Code = %q, want REC002", report.FailedRows[0].Code)
	}
	if n := countRows(t, st); n != 1 {
		t.Errorf("rows = %d, want 1 (run continues past a rejected record)", n)
	}
}

func TestIngestDuplicateIDEndToEnd(t *testing.T) {
	row := strings.Join(sampleFields(nil), ",")
	st, report := ingestFile(t, header+"\n"+row+"\n"+row+"\n")

	if report.Persisted != 1 || report.Rejected != 1 {
		t.Fatalf("Persisted, Rejected = %d, %d, want 1, 1", report.Persisted, report.Rejected)
	}
	if report.FailedRows[0].Code != "REC003" {
		t.Errorf("Code = %q, want REC003", report.FailedRows[0].Code)
	}
	if report.FailedRows[0].LineNumber != 3 {
		t.Errorf("LineNumber = %d, want 3", report.FailedRows[0].LineNumber)
	}
	if n := countRows(t, st); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestIngestOverlongLineEndToEnd(t *testing.T) {
	old := core.MaxLineSize
	core.MaxLineSize = 4096
	defer func() { core.MaxLineSize = old }()

	long := strings.Repeat("x,", 2500)
	good := strings.Join(sampleFields(nil), ",")
	st, report := ingestFile(t, header+"\n"+long+"\n"+good+"\n")

	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}
	if n := countRows(t, st); n != 1 {
		t.Errorf("rows = %d, want the row after the long line", n)
	}
}
