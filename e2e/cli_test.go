package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/cli"
	"github.com/mcoot/partygames/internal/factory"
)

// cliRunner executes partyctl commands in-process against a test server
type cliRunner struct {
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	return &cliRunner{
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)
	return execute(fullArgs)
}

func (r *cliRunner) runText(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
	}, args...)
	return execute(fullArgs)
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)
	return execute(fullArgs)
}

func execute(args []string) (string, error) {
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func parse[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

func startTestServer(t *testing.T) (*factory.TestApp, string) {
	t.Helper()

	app := factory.NewTestApp()
	server := httptest.NewServer(app.Handler())
	t.Cleanup(server.Close)

	return app, server.URL
}

func TestCLIHealth(t *testing.T) {
	_, url := startTestServer(t)
	cli := newCLIRunner(t, url)

	out, err := cli.run("health")
	require.NoError(t, err, out)
	assert.Equal(t, "ok", parse[response.Health](t, out).Status)
}

func TestCLIUserLifecycle(t *testing.T) {
	_, url := startTestServer(t)
	cli := newCLIRunner(t, url)

	out, err := cli.run("user", "register", "--user", "alice", "--pass", "secret123", "--email", "alice@example.com")
	require.NoError(t, err, out)
	auth := parse[response.AuthResponse](t, out)
	assert.Equal(t, "alice", auth.User.Username)

	// Token is persisted to the token file
	data, err := os.ReadFile(cli.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, auth.Token, string(data))

	out, err = cli.run("user", "me")
	require.NoError(t, err, out)
	assert.Equal(t, "alice", parse[response.User](t, out).Username)

	out, err = cli.run("user", "update", "--bio", "likes dares")
	require.NoError(t, err, out)
	user := parse[response.User](t, out)
	require.NotNil(t, user.Bio)
	assert.Equal(t, "likes dares", *user.Bio)

	out, err = cli.run("user", "logout")
	require.NoError(t, err, out)
	_, err = os.Stat(cli.tokenFile)
	assert.True(t, os.IsNotExist(err))

	// The old token no longer authenticates
	_, err = cli.runWithToken(auth.Token, "user", "me")
	require.Error(t, err)

	out, err = cli.run("user", "login", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, out)
	assert.NotEqual(t, auth.Token, parse[response.AuthResponse](t, out).Token)
}

func TestCLIErrorsCarryAPIMessage(t *testing.T) {
	_, url := startTestServer(t)
	cli := newCLIRunner(t, url)

	out, err := cli.run("user", "register", "--user", "bob", "--pass", "123", "--email", "bob@example.com")
	require.Error(t, err)
	assert.Contains(t, out, "INVALID_REQUEST")
	assert.Contains(t, out, "password")

	_, err = cli.run("user", "me")
	require.Error(t, err)
}

func TestCLIQuestionAdministration(t *testing.T) {
	_, url := startTestServer(t)
	cli := newCLIRunner(t, url)

	out, err := cli.run("user", "register", "--user", factory.TestAdminUsername, "--pass", "secret123", "--email", "admin@example.com")
	require.NoError(t, err, out)

	out, err = cli.run("questions", "add", "--type", "dare", "--mode", "spicy", "--content", "Tanze", "--en", "Dance")
	require.NoError(t, err, out)
	added := parse[response.Question](t, out)
	assert.True(t, added.Active)

	out, err = cli.run("questions", "eligible", "dare", "spicy")
	require.NoError(t, err, out)
	assert.Len(t, parse[[]response.Question](t, out), 1)

	// Import a YAML file
	file := filepath.Join(t.TempDir(), "questions.yaml")
	yaml := `questions:
  - type: truth
    mode: kids
    content: Was ist dein Lieblingstier?
  - type: truth
    mode: kids
    content: Wer ist dein bester Freund?
`
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0644))
	out, err = cli.run("questions", "import", file)
	require.NoError(t, err, out)
	assert.Equal(t, 2, parse[response.ImportResult](t, out).Imported)

	out, err = cli.run("questions", "list", "--mode", "kids")
	require.NoError(t, err, out)
	assert.Len(t, parse[[]response.Question](t, out), 2)

	out, err = cli.run("questions", "remove", "1")
	require.NoError(t, err, out)
	out, err = cli.run("questions", "eligible", "dare", "spicy")
	require.NoError(t, err, out)
	assert.Empty(t, parse[[]response.Question](t, out))

	out, err = cli.run("questions", "export")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wer ist dein bester Freund?")
	assert.Contains(t, out, "active: false")
}

func TestCLITruthOrDareSession(t *testing.T) {
	app, url := startTestServer(t)
	require.NoError(t, app.SeedQuestions())
	cli := newCLIRunner(t, url)

	out, err := cli.run("user", "register", "--user", "alice", "--pass", "secret123", "--email", "alice@example.com")
	require.NoError(t, err, out)

	out, err = cli.run("tod", "new")
	require.NoError(t, err, out)
	session := parse[response.Session](t, out)
	id := session.ID

	steps := [][]string{
		{"tod", "mode", id, "spicy"},
		{"tod", "count", id, "2"},
		{"tod", "add", id, "Alice", "--link-self"},
		{"tod", "add", id, "Bob"},
	}
	for _, step := range steps {
		out, err = cli.run(step...)
		require.NoError(t, err, out)
	}
	session = parse[response.Session](t, out)
	assert.Equal(t, "awaiting_choice", session.State)

	out, err = cli.run("tod", "draw", id, "dare", "--locale", "en")
	require.NoError(t, err, out)
	session = parse[response.Session](t, out)
	require.NotNil(t, session.Challenge)
	assert.Equal(t, "dare spicy (en)", session.Challenge.Content)

	out, err = cli.run("tod", "resolve", id, "completed")
	require.NoError(t, err, out)
	resolved := parse[response.ResolveResponse](t, out)
	assert.Equal(t, "Alice", resolved.Player.Name)
	assert.True(t, resolved.Recorded)

	out, err = cli.run("scores", "me")
	require.NoError(t, err, out)
	assert.Equal(t, resolved.Delta, parse[response.UserTotal](t, out).Total)

	out, err = cli.runText("tod", "show", id)
	require.NoError(t, err, out)
	assert.Contains(t, out, "> Bob")

	out, err = cli.run("tod", "end", id)
	require.NoError(t, err, out)
	_, err = cli.run("tod", "show", id)
	require.Error(t, err)
}

func TestCLIScoresAndDice(t *testing.T) {
	app, url := startTestServer(t)
	cli := newCLIRunner(t, url)

	out, err := cli.run("scores", "add", "--player", "Carol", "--points", "7", "--game", "dice")
	require.NoError(t, err, out)
	assert.Nil(t, parse[response.ScoreEntry](t, out).UserID)

	out, err = cli.run("scores", "list", "--limit", "5")
	require.NoError(t, err, out)
	board := parse[[]response.LeaderboardEntry](t, out)
	require.Len(t, board, 1)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 7, board[0].Points)

	app.MockRandom.QueueIntn(5)
	out, err = cli.run("dice", "roll")
	require.NoError(t, err, out)
	assert.Equal(t, 6, parse[response.DiceRoll](t, out).Value)

	out, err = cli.runText("scores", "list")
	require.NoError(t, err, out)
	assert.True(t, strings.Contains(out, "Carol"))
}
