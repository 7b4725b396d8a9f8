package main

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pokedex/internal/catalog"
	"pokedex/internal/config"
	"pokedex/internal/notify"
	"pokedex/internal/pokeapi"
	"pokedex/internal/pokeapi/pokeapitest"
)

var fixture = []pokeapitest.Entity{
	{ID: 1, Name: "bulbasaur", Abilities: []string{"overgrow", "chlorophyll"}, Moves: []string{"tackle"}, Types: []string{"grass", "poison"}},
	{ID: 4, Name: "charmander", Abilities: []string{"blaze", "solar-power"}, Moves: []string{"scratch"}, Types: []string{"fire"}},
	{ID: 25, Name: "pikachu", Abilities: []string{"static", "lightning-rod"}, Moves: []string{"thunder-shock"}, Types: []string{"electric"}},
	{ID: 152, Name: "chikorita", Abilities: []string{"overgrow", "leaf-guard"}, Moves: []string{"tackle"}, Types: []string{"grass"}},
}

// setup points the command globals at a fresh workspace and a fake API.
func setup(t *testing.T) (*pokeapitest.Server, string) {
	t.Helper()
	logger = zap.NewNop()

	srv := pokeapitest.NewServer(fixture...)
	t.Cleanup(srv.Close)

	ws := t.TempDir()
	workspace = ws
	apiURL = srv.BaseURL()
	renderStyle = "notty"
	t.Setenv("DEX_API_URL", "")
	t.Setenv("DEX_DB", "")
	t.Cleanup(func() {
		workspace, apiURL, configPath = "", "", ""
		listGeneration, listRange = 0, ""
		scanConcurrency, scanTop, scanRecord = 0, 1, false
		historyLimit = 10
		configForce = false
	})
	return srv, ws
}

func newCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func TestListCmd_Generation(t *testing.T) {
	setup(t)
	listGeneration = 1

	cmd, out, _ := newCmd()
	require.NoError(t, runList(cmd, nil))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 151)
	assert.Equal(t, "1 bulbasaur", lines[0])
	assert.Equal(t, "2 -", lines[1])
	assert.Equal(t, "25 pikachu", lines[24])
}

func TestListCmd_Range(t *testing.T) {
	setup(t)
	listRange = "150,152"

	cmd, out, _ := newCmd()
	require.NoError(t, runList(cmd, nil))
	assert.Equal(t, "150 -\n151 -\n152 chikorita\n", out.String())
}

func TestListCmd_Selectors(t *testing.T) {
	setup(t)
	cmd, _, _ := newCmd()

	assert.Error(t, runList(cmd, nil), "a selector is required")

	listGeneration, listRange = 1, "1,2"
	assert.Error(t, runList(cmd, nil), "selectors are exclusive")

	listGeneration, listRange = 42, ""
	assert.ErrorContains(t, runList(cmd, nil), "unknown generation 42")

	listGeneration, listRange = 0, "9,3"
	assert.Error(t, runList(cmd, nil))

	listRange = "1,9223372036854775807"
	assert.ErrorIs(t, runList(cmd, nil), catalog.ErrInvalidRange)
}

func TestListCmd_IndexFailureNotifiesOnce(t *testing.T) {
	srv, _ := setup(t)
	srv.SetIndexResponse(http.StatusInternalServerError, "boom")
	listGeneration = 1

	cmd, out, errOut := newCmd()
	require.Error(t, runList(cmd, nil))
	assert.Empty(t, out.String())
	assert.Equal(t, 1, strings.Count(errOut.String(), notify.FailureMessage))
}

func TestSearchCmd_Found(t *testing.T) {
	setup(t)

	cmd, out, _ := newCmd()
	require.NoError(t, runSearch(cmd, []string{"Pikachu"}))
	assert.Contains(t, out.String(), "pikachu")
	assert.Contains(t, out.String(), "static")
	assert.Contains(t, out.String(), "electric")
}

func TestSearchCmd_NotFound(t *testing.T) {
	srv, _ := setup(t)

	cmd, out, errOut := newCmd()
	require.NoError(t, runSearch(cmd, []string{"Charmandr"}))
	assert.Contains(t, out.String(), `There is no Pokemon named "Charmandr" in the Pokedex`)
	assert.Contains(t, out.String(), "charmander")
	assert.Empty(t, errOut.String())
	assert.Zero(t, srv.DetailCalls("charmandr"), "misses never reach the detail endpoint")
}

func TestTopAbilityCmd(t *testing.T) {
	setup(t)
	scanTop = 3

	cmd, out, _ := newCmd()
	require.NoError(t, runTopAbility(cmd, nil))
	assert.Contains(t, out.String(), "Most frequent ability: overgrow (2 of 4)")
	assert.Contains(t, out.String(), "1. overgrow")
}

func TestTopAbilityCmd_ConcurrentMatchesSerial(t *testing.T) {
	setup(t)
	scanConcurrency = 4

	cmd, out, _ := newCmd()
	require.NoError(t, runTopAbility(cmd, nil))
	assert.Contains(t, out.String(), "Most frequent ability: overgrow (2 of 4)")
}

func TestTopAbilityCmd_RecordAndHistory(t *testing.T) {
	_, ws := setup(t)
	scanRecord = true

	cmd, out, _ := newCmd()
	require.NoError(t, runTopAbility(cmd, nil))
	assert.Contains(t, out.String(), "Recorded run ")
	assert.FileExists(t, filepath.Join(ws, ".dex", "history.db"))

	cmd, out, _ = newCmd()
	require.NoError(t, runHistory(cmd, nil))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ABILITY")
	assert.Contains(t, lines[1], "overgrow")
}

func TestHistoryCmd_Empty(t *testing.T) {
	setup(t)

	cmd, out, _ := newCmd()
	require.NoError(t, runHistory(cmd, nil))
	assert.Equal(t, "No recorded scans.\n", out.String())
}

func TestGenerationsCmd(t *testing.T) {
	setup(t)

	cmd, out, _ := newCmd()
	require.NoError(t, runGenerations(cmd, nil))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Generation 1: 1-151 (151)", lines[0])
	assert.Equal(t, "Generation 9: 906-1017 (112)", lines[8])
}

func TestConfigInitCmd(t *testing.T) {
	_, ws := setup(t)
	path := config.DefaultPath(ws)

	cmd, out, _ := newCmd()
	require.NoError(t, runConfigInit(cmd, nil))
	assert.Contains(t, out.String(), "Wrote")
	assert.FileExists(t, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().API.BaseURL, cfg.API.BaseURL)

	cmd, out, _ = newCmd()
	require.NoError(t, runConfigInit(cmd, nil))
	assert.Contains(t, out.String(), "already exists")
}

func TestConfigFileIsHonored(t *testing.T) {
	_, ws := setup(t)
	cfg := config.DefaultConfig()
	cfg.Generations = []config.Generation{{Number: 1, Start: 1, End: 4}}
	require.NoError(t, cfg.Save(config.DefaultPath(ws)))
	listGeneration = 1

	cmd, out, _ := newCmd()
	require.NoError(t, runList(cmd, nil))
	assert.Equal(t, "1 bulbasaur\n2 -\n3 -\n4 charmander\n", out.String())
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, ws := setup(t)
	path := config.DefaultPath(ws)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  concurrency: 0\n"), 0644))

	cmd, _, _ := newCmd()
	assert.ErrorContains(t, runGenerations(cmd, nil), "invalid config")
}

func TestTimeoutDefaultsToNone(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("timeout")
	require.NotNil(t, flag)
	assert.Equal(t, "0s", flag.DefValue)

	setup(t)
	ctx, cancel := commandContext()
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)
}

func TestReportError(t *testing.T) {
	fetchErr := &pokeapi.NetworkError{Op: "fetch index", URL: "x", StatusCode: 500, Err: errors.New("500")}

	var buf bytes.Buffer
	reportError(&buf, fetchErr)
	assert.Empty(t, buf.String(), "the notification already told the user")

	reportError(&buf, errors.New("unknown generation 42"))
	assert.Equal(t, "unknown generation 42\n", buf.String())

	buf.Reset()
	verbose = true
	defer func() { verbose = false }()
	reportError(&buf, fetchErr)
	assert.Contains(t, buf.String(), "fetch index")
}
