package annotate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semunits/metrics"
	"github.com/c360studio/semunits/store"
)

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
	require.NoError(t, os.WriteFile(dst, data, 0644))
}

func testOptions(dir string, inputs ...string) Options {
	return Options{
		Inputs:      inputs,
		Annotations: filepath.Join(dir, "annotations.ttl"),
		Archive:     testArchive,
		Logger:      quietLogger(),
	}
}

func TestRun_FirstRunThenIdempotentRerun(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "sodium.cellml")
	copyFile(t, "testdata/models/sodium.cellml", model)
	opts := testOptions(dir, model)

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Models)
	assert.Equal(t, 0, res.TriplesLoad)
	assert.Equal(t, 4, res.Stats.FactsAdded)
	assert.Equal(t, 4, res.TriplesSave)
	assert.NotEmpty(t, res.RunID)

	first, err := os.ReadFile(opts.Annotations)
	require.NoError(t, err)
	assert.Contains(t, string(first), "@prefix bqbiol:")
	assert.Contains(t, string(first), "molar_amount_Na_pt--s1")

	res, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TriplesLoad)
	assert.Zero(t, res.Stats.FactsAdded)
	assert.Zero(t, res.Stats.EntitiesCreated)

	second, err := os.ReadFile(opts.Annotations)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestRun_MultipleModelsWithGlob(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, "testdata/models/sodium.cellml", filepath.Join(dir, "models", "sodium.cellml"))
	copyFile(t, "testdata/models/kidney.cellml", filepath.Join(dir, "models", "nested", "kidney.cellml"))

	opts := testOptions(dir, filepath.Join(dir, "models", "**", "*.cellml"))
	opts.ArchiveRoot = dir
	opts.Output = filepath.Join(dir, "out", "annotations.nt")
	rec := metrics.NewRecorder()
	opts.Metrics = rec

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Models)
	assert.Equal(t, opts.Output, res.Output)
	assert.NoFileExists(t, opts.Annotations)

	s, err := store.Open(opts.Output, testArchive, store.Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, res.TriplesSave, s.Len())

	s.SetAnnotationSource("models/nested/kidney.cellml")
	assert.Equal(t, "http://omex-library.org/kidney.omex/models/nested/kidney.cellml#q_pt_Na", s.VariableIRI("q_pt_Na").Value)
	subject := s.VariableIRI("q_pt_Na")
	assert.True(t, s.HasFact(&subject, nil, nil))

	expected := `
# HELP semunits_models_total Total number of models annotated
# TYPE semunits_models_total counter
semunits_models_total 2
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "semunits_models_total"))
}

func TestRun_OutputConflict(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "sodium.cellml")
	copyFile(t, "testdata/models/sodium.cellml", model)
	opts := testOptions(dir, model)
	opts.Output = filepath.Join(dir, "existing.ttl")
	require.NoError(t, os.WriteFile(opts.Output, []byte("# keep\n"), 0644))

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.ErrorIs(t, err, store.ErrOutputExists)
	assert.Equal(t, ExitConflict, ExitCode(err))

	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	assert.Equal(t, "# keep\n", string(data))

	opts.Force = true
	_, err = Run(context.Background(), opts)
	require.NoError(t, err)
}

func TestRun_UnknownAnnotationFormat(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "sodium.cellml")
	copyFile(t, "testdata/models/sodium.cellml", model)
	opts := testOptions(dir, model)
	opts.Annotations = filepath.Join(dir, "annotations.csv")

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestRun_InvalidModelWritesNothing(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "sodium.cellml")
	bad := filepath.Join(dir, "invalid.cellml")
	copyFile(t, "testdata/models/sodium.cellml", good)
	copyFile(t, "testdata/invalid.cellml", bad)
	opts := testOptions(dir, good, bad)

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, ExitValidation, ExitCode(err))
	assert.NoFileExists(t, opts.Annotations)
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir, filepath.Join(dir, "absent.cellml"))

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, ExitMissing, ExitCode(err))
	assert.NoFileExists(t, opts.Annotations)
}

func TestRun_InvalidArchiveName(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "sodium.cellml")
	copyFile(t, "testdata/models/sodium.cellml", model)
	opts := testOptions(dir, model)
	opts.Archive = "bad archive"

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, IsConfig(err))
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "sodium.cellml")
	copyFile(t, "testdata/models/sodium.cellml", model)
	opts := testOptions(dir, model)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, opts.Annotations)
}

func TestRun_PreservesExistingFacts(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "sodium.cellml")
	copyFile(t, "testdata/models/sodium.cellml", model)
	opts := testOptions(dir, model)
	existing := "<http://example.org/a> <http://example.org/p> \"note\" .\n"
	opts.Annotations = filepath.Join(dir, "annotations.nt")
	require.NoError(t, os.WriteFile(opts.Annotations, []byte(existing), 0644))

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TriplesLoad)
	assert.Equal(t, 5, res.TriplesSave)

	data, err := os.ReadFile(opts.Annotations)
	require.NoError(t, err)
	assert.Contains(t, string(data), strings.TrimSpace(existing))
}

func TestRun_InPlaceUpdateBypassesConflictCheck(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "sodium.cellml")
	copyFile(t, "testdata/models/sodium.cellml", model)
	opts := testOptions(dir, model)
	require.NoError(t, os.WriteFile(opts.Annotations, nil, 0644))
	opts.Output = opts.Annotations
	opts.Force = false

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TriplesSave)

	// A distinct existing output still needs Force.
	opts.Output = filepath.Join(dir, "copy.ttl")
	require.NoError(t, os.WriteFile(opts.Output, nil, 0644))
	_, err = Run(context.Background(), opts)
	assert.True(t, IsConflict(err))
}
