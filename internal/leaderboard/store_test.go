package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"leaderboard-sync/internal/components/telemetry"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBaseline struct {
	dataset   Dataset
	err       error
	requested []string
}

func (f *fakeBaseline) FetchBaseline(_ context.Context, filename string) (Dataset, error) {
	f.requested = append(f.requested, filename)
	return f.dataset, f.err
}

const storedFile = `{
    "coding": {
        "Model A": {
            "rating": 1200.0,
            "rating_q975": 1215.0,
            "rating_q025": 1185.0,
            "variance": 12.5
        }
    },
    "full": {
        "Caf\u00e9 Model": {
            "rating": 1000.0,
            "rating_q975": 1010.0,
            "rating_q025": 990.0
        }
    }
}`

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaderboard-text.json"), []byte(storedFile), 0644))

	baseline := &fakeBaseline{}
	store := NewStore(StoreOptions{Dir: dir}, telemetry.NopAPI{})

	dataset, err := store.Load(context.Background(), "leaderboard-text.json", baseline)
	require.NoError(t, err)
	require.Empty(t, baseline.requested)
	require.Len(t, dataset, 2)

	category, ok, err := dataset.Category("coding")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, NewRecord(1200, 15), category["Model A"])
}

func TestLoadFallsBackToBaseline(t *testing.T) {
	dir := t.TempDir()
	baseline := &fakeBaseline{dataset: Dataset{"full": json.RawMessage(`{}`)}}
	store := NewStore(StoreOptions{Dir: dir}, telemetry.NopAPI{})

	dataset, err := store.Load(context.Background(), "leaderboard-image.json", baseline)
	require.NoError(t, err)
	require.Equal(t, baseline.dataset, dataset)
	require.Equal(t, []string{"leaderboard-image.json"}, baseline.requested)

	_, err = os.Stat(filepath.Join(dir, "leaderboard-image.json"))
	require.True(t, errors.Is(err, os.ErrNotExist), "load must not create the file")
}

func TestLoadBaselineFailure(t *testing.T) {
	rec := &telemetry.Recorder{}
	baseline := &fakeBaseline{err: errors.New("catalog unreachable")}
	store := NewStore(StoreOptions{Dir: t.TempDir()}, rec)

	_, err := store.Load(context.Background(), "leaderboard-image.json", baseline)
	require.ErrorContains(t, err, "catalog unreachable")
	require.Len(t, rec.Reports(telemetry.KindBroken, report_store_load), 1)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaderboard-text.json"), []byte(`{"coding": `), 0644))
	store := NewStore(StoreOptions{Dir: dir}, telemetry.NopAPI{})

	_, err := store.Load(context.Background(), "leaderboard-text.json", &fakeBaseline{})
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		dir := t.TempDir()
		path := filepath.Join(dir, "leaderboard-text.json")
		require.NoError(t, os.WriteFile(path, []byte(storedFile), 0644))

		store := NewStore(StoreOptions{Dir: dir, Atomic: atomic}, telemetry.NopAPI{})
		dataset, err := store.Load(context.Background(), "leaderboard-text.json", &fakeBaseline{})
		require.NoError(t, err)

		require.NoError(t, store.Save("leaderboard-text.json", dataset))
		saved, err := os.ReadFile(path)
		require.NoError(t, err)
		// unknown fields and escapes of untouched categories survive
		require.Equal(t, storedFile, string(saved))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1, "no temporary files are left behind")
	}
}

func TestSaveIsStable(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(StoreOptions{Dir: dir}, telemetry.NopAPI{})

	dataset := Dataset{}
	require.NoError(t, dataset.Set("math", Category{"B": NewRecord(1100, 5), "A": NewRecord(1200, 15)}))
	require.NoError(t, dataset.Set("coding", Category{"A": NewRecord(1250, 0)}))

	require.NoError(t, store.Save("out.json", dataset))
	first, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)

	require.Equal(t, `{
    "coding": {
        "A": {
            "rating": 1250.0,
            "rating_q975": 1250.0,
            "rating_q025": 1250.0
        }
    },
    "math": {
        "A": {
            "rating": 1200.0,
            "rating_q975": 1215.0,
            "rating_q025": 1185.0
        },
        "B": {
            "rating": 1100.0,
            "rating_q975": 1105.0,
            "rating_q025": 1095.0
        }
    }
}`, string(first))

	reloaded, err := store.Load(context.Background(), "out.json", &fakeBaseline{})
	require.NoError(t, err)
	require.NoError(t, store.Save("out.json", reloaded))
	second, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestSaveUnwritable(t *testing.T) {
	rec := &telemetry.Recorder{}
	store := NewStore(StoreOptions{Dir: filepath.Join(t.TempDir(), "missing")}, rec)

	err := store.Save("out.json", Dataset{})
	require.Error(t, err)
	require.Len(t, rec.Reports(telemetry.KindBroken, report_store_save), 1)
}

func TestEncodeDatasetEscapesNonASCII(t *testing.T) {
	dataset := Dataset{}
	require.NoError(t, dataset.Set("full", Category{"Café 🎨 <AT&T>": NewRecord(1000, 0)}))

	encoded, err := EncodeDataset(dataset)
	require.NoError(t, err)
	require.Equal(t, `{
    "full": {
        "Caf\u00e9 \ud83c\udfa8 <AT&T>": {
            "rating": 1000.0,
            "rating_q975": 1000.0,
            "rating_q025": 1000.0
        }
    }
}`, string(encoded))

	decoded, err := DecodeDataset(encoded)
	require.NoError(t, err)
	category, ok, err := decoded.Category("full")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, category, "Café 🎨 <AT&T>")
}
