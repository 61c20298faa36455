package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"folio.dev/internal/catalog"
	"folio.dev/internal/config"
	"folio.dev/internal/store"
)

const seedDoc = `
projects:
  - {slug: first, title: First, tags: [A]}
  - {slug: second, title: Second, tags: [A, B]}
experiences:
  - {company: Studio}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.toml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	dbPath := filepath.Join(dir, "content.db")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedDoc), 0o644))

	out, err := execute(t, "seed", seedPath, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 projects")

	db, err := store.OpenSQLite(dbPath, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()
	got, err := db.ListProjects(context.Background(), catalog.Criteria{Tag: "B"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Slug)
}

func TestSeedCommand_BadFile(t *testing.T) {
	_, err := execute(t, "seed", filepath.Join(t.TempDir(), "missing.yaml"), "--db", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func TestSampleCommand(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetNRGBA(0, 2, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	out, err := execute(t, "sample", srv.URL+"/a.png", "not a url")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	// rows 1..2 are sampled: three white pixels and one black
	assert.Contains(t, lines[0], "rgb(191,191,191)")
	assert.Contains(t, lines[1], "rgb(0,0,0)\t#000000")
}

func TestApplyServeFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(serveCmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--addr", ":9999", "--memory", "--watch", "--seed", "s.yaml"}))

	c := config.DefaultConfig()
	require.NoError(t, applyServeFlags(cmd, c))
	assert.Equal(t, ":9999", c.Server.Addr)
	assert.Equal(t, config.DriverMemory, c.Store.Driver)
	assert.True(t, c.Store.Watch)
	assert.Equal(t, "s.yaml", c.Store.Seed)
	assert.Equal(t, "data/portfolio.db", c.Store.Path, "unset flags keep the config value")
}

func TestOpenStore_MemorySeed(t *testing.T) {
	logger = zap.NewNop()
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedDoc), 0o644))

	c := config.DefaultConfig()
	c.Store.Driver = config.DriverMemory
	c.Store.Seed = seedPath
	st, err := openStore(context.Background(), c)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.ListProjects(context.Background(), catalog.Criteria{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	c.Store.Seed = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = openStore(context.Background(), c)
	assert.Error(t, err)
}
