package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/complexport/internal/testutil"
)

const fixtures = "testdata/complexes.yaml"

// execute runs the root command with a fixed clock and run id and returns
// its stdout, stderr and error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(&RootOptions{
		Clock:  testutil.NewFixedClock(2024, time.March, 5),
		RunIDs: testutil.FixedIDGenerator{ID: "run-1"},
	})
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExport_FromFixtures(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "out", "cp")

	stdout, _, err := execute(t, "export", "--fixtures", fixtures, prefix)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 complexes exported, 0 skipped")

	assert.Equal(t,
		"complex_id\tversion\tdatabase_name\tdatabase_ac\tstoichiometry\n"+
			"CPX-2\t3\tuniprot\tP12345\t4\n"+
			"CPX-2\t3\tuniprot\tQ99999\t1\n"+
			"EBI-1\t1\tuniprot\tP12345\t2\n",
		readFile(t, prefix+"_table2.tsv"))
	assert.Contains(t, readFile(t, prefix+"_table3.tsv"), "CPX-2\t3\t1ABC\n")
	assert.NoFileExists(t, prefix+"_complexes.tsv")
}

func TestExport_ComplexesFlag(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "cp")

	_, _, err := execute(t, "export", "--fixtures", fixtures, "--complexes", prefix)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(readFile(t, prefix+"_complexes.tsv"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "CPX-2\tNested Complex\tNested\t9606\tP12345(4)|Q99999(1)\t"))
	assert.Len(t, strings.Split(lines[1], "\t"), 18)
}

func TestExport_MissingPrefix(t *testing.T) {
	_, stderr, err := execute(t, "export", "--fixtures", fixtures)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "missing argument <prefix>")
	assert.Contains(t, stderr, "Usage:")
}

func TestExport_DatabaseNotFound(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "export", "--db", filepath.Join(dir, "missing.db"), filepath.Join(dir, "cp"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestExport_TaxonFilter(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "cp")

	stdout, _, err := execute(t, "export", "--fixtures", fixtures, "--tax-id", "10090", prefix)
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 complexes exported")
	assert.Equal(t, "complex_id\tversion\tpdb_ids\n", readFile(t, prefix+"_table3.tsv"))
}

func TestExport_JSONOutput(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "cp")

	stdout, stderr, err := execute(t, "--format", "json", "export", "--fixtures", fixtures, prefix)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		RunID  string       `json:"run_id"`
		Data   ExportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, 2, resp.Data.Exported)
	assert.Len(t, resp.Data.Files, 3)

	assert.Contains(t, stderr, "run=run-1")
	assert.NotContains(t, stderr, "exported,")
}

func TestExport_ConfigFile(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "cp")

	_, _, err := execute(t, "--config", "testdata/config.yaml", "export", "--fixtures", fixtures, prefix)
	require.NoError(t, err)
	assert.FileExists(t, prefix+"_complexes.tsv")
}

func TestExport_FlagOverridesConfig(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "cp")

	_, _, err := execute(t, "--config", "testdata/config.yaml", "export", "--fixtures", fixtures, "--complexes=false", prefix)
	require.NoError(t, err)
	assert.NoFileExists(t, prefix+"_complexes.tsv")
}

func TestExport_BadConfig(t *testing.T) {
	_, _, err := execute(t, "--config", "testdata/bad.toml", "export", "--fixtures", fixtures, filepath.Join(t.TempDir(), "cp"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestExport_InvalidChunkSize(t *testing.T) {
	_, _, err := execute(t, "export", "--fixtures", fixtures, "--chunk-size", "0", filepath.Join(t.TempDir(), "cp"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLoadThenExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "portal.db")

	stdout, _, err := execute(t, "load", "--db", db, fixtures)
	require.NoError(t, err)
	assert.Equal(t, db+": loaded 3 interactors, 2 complexes, 1 evidences\n", stdout)

	_, _, err = execute(t, "export", "--db", db, filepath.Join(dir, "cp"))
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "cp_table1.tsv")), "EBI-1\t1\tTest Complex\t-\t-\n")
}

func TestLoad_BadFixtures(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "load", "--db", filepath.Join(dir, "portal.db"), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGAF_FromFixtures(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cp.gaf")

	stdout, _, err := execute(t, "gaf", "--fixtures", fixtures, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "GAF 2.2, 1 lines from 2 complexes")

	gaf := readFile(t, out)
	assert.True(t, strings.HasPrefix(gaf, "!gaf-version: 2.2\n!generated-by: IntAct\n!date-generated: 2024-03-05\n"))
	assert.Contains(t, gaf, "ComplexPortal\tCPX-2\tNested Complex\tpart_of\tGO:0005737\t")
}

func TestGAF_VersionFromConfigAndFlag(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "--config", "testdata/config.yaml", "gaf", "--fixtures", fixtures, filepath.Join(dir, "a.gaf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(dir, "a.gaf")), "!gaf-version: 2.1\n"))

	_, _, err = execute(t, "--config", "testdata/config.yaml", "gaf", "--gaf-version", "2.2", "--fixtures", fixtures, filepath.Join(dir, "b.gaf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(dir, "b.gaf")), "!gaf-version: 2.2\n"))
}

func TestGAF_BadVersion(t *testing.T) {
	_, _, err := execute(t, "gaf", "--gaf-version", "3", "--fixtures", fixtures, filepath.Join(t.TempDir(), "x.gaf"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCluster_FromFixtures(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cluster.tsv")

	stdout, _, err := execute(t, "cluster", "--fixtures", fixtures, "testdata/interactions.mitab", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 binary interactions from 2 records (1 accepted)")

	assert.Equal(t,
		"id\tuniprot_a\tuniprot_b\tgene_a\tgene_b\tinteraction_acs\tpublications\tdetection_methods\tinteraction_types\tevidence_count\n"+
			"1\tP12345\tQ99999\t-\t-\tEBI-100\tpubmed:1000\tpsi-mi:MI:0018(two hybrid)\tpsi-mi:MI:0915(physical association)\t1\n",
		readFile(t, out))
}

func TestCluster_Exclude(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cluster.tsv")

	_, _, err := execute(t, "--format", "json", "cluster", "--fixtures", fixtures, "--exclude", "EBI-100", "testdata/interactions.mitab", out)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(readFile(t, out), "\n"))
}

func TestCluster_MissingArguments(t *testing.T) {
	_, stderr, err := execute(t, "cluster", "testdata/interactions.mitab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing argument <output>")
	assert.Contains(t, stderr, "Usage:")
}

func TestCluster_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "cluster", "--fixtures", fixtures, filepath.Join(dir, "nope.mitab"), filepath.Join(dir, "out.tsv"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
