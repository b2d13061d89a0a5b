package headless

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/vovakirdan/tetra/internal/battle"
	"github.com/vovakirdan/tetra/internal/core"
)

type fakeSaver struct {
	saved []MatchResultData
	err   error
}

func (f *fakeSaver) SaveMatchResult(r MatchResultData) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, r)
	return "match-1", nil
}

// newTestSession deals every hand from a one-card pool, so hands do not
// depend on the seed.
func newTestSession(t *testing.T, card string, saver MatchResultSaver) *Session {
	t.Helper()
	s, err := NewSession(Options{
		Pool:    []core.Card{core.MustParseCard(card)},
		Runtime: core.DefaultConfig(),
		Saver:   saver,
		Seed:    func() int64 { return 77 },
	})
	require.NoError(t, err)
	return s
}

func handle(t *testing.T, s *Session, line string) []string {
	t.Helper()
	reply, quit := s.Handle(line)
	require.False(t, quit)
	return reply
}

func TestSessionScript(t *testing.T) {
	s := newTestSession(t, "1P11@20", nil)
	hand := "[1P11@20,1P11@20,1P11@20,1P11@20,1P11@20]"

	steps := []struct {
		cmd  string
		want []string
	}{
		{"board", []string{"error no-game no game in progress"}},
		{"new seed=5 blocked=[0,F]", []string{"setup-ok seed=5 blocked=[0,F] p1=" + hand + " p2=" + hand}},
		{"place p2 0 1", []string{"error out-of-turn p2: card 0 to cell 1: not this player's turn"}},
		{"place p1 0 4", []string{"ok flips=[]", "turn=p2"}},
		{"place p2 0 0", []string{"error cell-blocked p2: card 0 to cell 0: cell is blocked"}},
		{"place p2 0 4", []string{"error cell-occupied p2: card 0 to cell 4: cell is occupied"}},
		{"place p2 7 2", []string{"error invalid-hand-index p2: card 7 to cell 2: hand index is not a playable card"}},
		{"place p2 0 10", []string{"error invalid-cell p2: card 0 to cell 10: cell is outside the board"}},
		{"place p2 0 2", []string{"ok flips=[]", "turn=p1"}},
		{"place p1 1 1", []string{"ok flips=[2:direct:p1]", "turn=p2"}},
		{"board", []string{"board # 1P11@20:p1 1P11@20:p1 . 1P11@20:p1 . . . . . . . . . . #"}},
		{"hand p1", []string{"hand p1 [-,-,1P11@20,1P11@20,1P11@20]"}},
		{"hand P2", []string{"hand p2 [-,1P11@20,1P11@20,1P11@20,1P11@20]"}},
		{"status", []string{"status turn=p2 moves=3 score=3-0"}},
		{"log", []string{
			"log turn p1",
			"log place p1 card=0 cell=4",
			"log turn p2",
			"log place p2 card=5 cell=2",
			"log turn p1",
			"log place p1 card=1 cell=1",
			"log flip cell=2 to=p1",
			"log turn p2",
			"log-end n=8",
		}},
		{"log", []string{"log-end n=0"}},
	}

	for _, st := range steps {
		assert.Equal(t, st.want, handle(t, s, st.cmd), "command %q", st.cmd)
	}
}

func TestSessionFullGameRecordsResult(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestSession(t, "0P00@00", saver)

	handle(t, s, "new seed=9 blocked=[]")
	var last []string
	for i := range 10 {
		player := "p1"
		if i%2 == 1 {
			player = "p2"
		}
		last = handle(t, s, strings.Join([]string{"place", player, string(rune('0' + i/2)), string(rune('0' + i))}, " "))
	}

	assert.Equal(t, []string{"ok flips=[]", "game-over draw score=5-5"}, last)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, MatchResultData{
		Seed:    9,
		System:  "original",
		Winner:  "draw",
		Score1:  5,
		Score2:  5,
		Moves:   10,
		Blocked: []int{},
		Setup:   "seed=9 blocked=[]",
	}, saver.saved[0])

	assert.Equal(t, []string{"status over draw score=5-5"}, handle(t, s, "status"))
	assert.Equal(t,
		[]string{"error game-over p1: card 0 to cell A: game is already over"},
		handle(t, s, "place p1 0 A"))
	assert.Len(t, saver.saved, 1, "rejected moves are not recorded")
}

func TestSessionFixedHands(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestSession(t, "9P99@FF", saver)

	p1 := "[1P11@20,0P00@00,0P00@00,0P00@00,0P00@00]"
	p2 := "[0P00@00,0P00@00,0P00@00,0P00@00,0P00@00]"

	steps := []struct {
		cmd  string
		want []string
	}{
		{"new seed=1 blocked=[] hands=" + p1 + ";" + p2, []string{"setup-ok seed=1 blocked=[] p1=" + p1 + " p2=" + p2}},
		{"place p1 1 5", []string{"ok flips=[]", "turn=p2"}},
		{"place p2 0 1", []string{"ok flips=[]", "turn=p1"}},
		{"place p1 0 0", []string{"ok flips=[1:direct:p1]", "turn=p2"}},
		{"place p2 1 2", []string{"ok flips=[]", "turn=p1"}},
		{"place p1 2 3", []string{"ok flips=[]", "turn=p2"}},
		{"place p2 2 4", []string{"ok flips=[]", "turn=p1"}},
		{"place p1 3 6", []string{"ok flips=[]", "turn=p2"}},
		{"place p2 3 7", []string{"ok flips=[]", "turn=p1"}},
		{"place p1 4 8", []string{"ok flips=[]", "turn=p2"}},
		{"place p2 4 9", []string{"ok flips=[]", "game-over winner=p1 score=6-4"}},
	}
	for _, st := range steps {
		assert.Equal(t, st.want, handle(t, s, st.cmd), "command %q", st.cmd)
	}

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "p1", saver.saved[0].Winner)
	assert.Equal(t, "seed=1 blocked=[] hands=["+p1+";"+p2+"]", saver.saved[0].Setup)

	// The recorded setup starts the same game again.
	again := newTestSession(t, "9P99@FF", nil)
	reply := handle(t, again, "new "+saver.saved[0].Setup)
	assert.Equal(t, []string{"setup-ok seed=1 blocked=[] p1=" + p1 + " p2=" + p2}, reply)
}

func TestSessionHandSelection(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestSession(t, "9P99@FF", saver)

	c0 := "[1P11@00,1P11@00,1P11@00,1P11@00,1P11@00]"
	c1 := "[2P22@00,2P22@00,2P22@00,2P22@00,2P22@00]"
	c2 := "[3P33@00,3P33@00,3P33@00,3P33@00,3P33@00]"
	cands := "[" + c0 + ";" + c1 + ";" + c2 + "]"

	steps := []struct {
		cmd  string
		want []string
	}{
		{"new seed=4 blocked=[F] candidates=" + cands, []string{"setup-ok seed=4 blocked=[F] candidates=" + cands}},
		{"place p1 0 0", []string{"error picking hand selection in progress"}},
		{"board", []string{"error picking hand selection in progress"}},
		{"status", []string{"status picking pick=p1"}},
		{"pick p2 0", []string{"error out-of-turn p2: pick 0: not this player's turn"}},
		{"pick p1 3", []string{"error invalid-pick p1: pick 3: no such candidate hand"}},
		{"pick p1 1", []string{"ok pick p1=1", "pick=p2"}},
		{"status", []string{"status picking pick=p2"}},
		{"pick p2 1", []string{"error hand-taken p2: pick 1: candidate hand already picked"}},
		{"pick p2 2", []string{"ok pick p2=2", "ready p1=" + c1 + " p2=" + c2, "turn=p1"}},
		{"pick p1 0", []string{"error bad-command no hand selection in progress"}},
		{"status", []string{"status turn=p1 moves=0 score=0-0"}},
		{"hand p2", []string{"hand p2 " + c2}},
		{"log", []string{"log turn p1", "log-end n=1"}},
	}
	for _, st := range steps {
		assert.Equal(t, st.want, handle(t, s, st.cmd), "command %q", st.cmd)
	}

	for i := range 10 {
		player := "p1"
		if i%2 == 1 {
			player = "p2"
		}
		handle(t, s, "place "+player+" "+string(rune('0'+i/2))+" "+string(rune('0'+i)))
	}
	assert.True(t, s.Game().IsOver())
	require.Len(t, saver.saved, 1)
	assert.Equal(t, []int{0xF}, saver.saved[0].Blocked)
	assert.Equal(t, "seed=4 blocked=[F] candidates="+cands, saver.saved[0].Setup)
}

func TestSessionDealtCandidates(t *testing.T) {
	line := "new seed=3 candidates=deal"
	hand := "[1P11@20,1P11@20,1P11@20,1P11@20,1P11@20]"

	a := handle(t, newTestSession(t, "1P11@20", nil), line)
	require.Len(t, a, 1)
	assert.True(t, strings.HasPrefix(a[0], "setup-ok seed=3 blocked="), a[0])
	assert.True(t, strings.HasSuffix(a[0], " candidates=["+hand+";"+hand+";"+hand+"]"), a[0])

	b := handle(t, newTestSession(t, "1P11@20", nil), line)
	assert.Equal(t, a, b)
}

func TestSessionNewAbandonsHandSelection(t *testing.T) {
	s := newTestSession(t, "0P00@00", nil)
	handle(t, s, "new seed=1 blocked=[] candidates=deal")
	handle(t, s, "pick p1 0")

	handle(t, s, "new seed=2 blocked=[]")
	assert.Equal(t, []string{"status turn=p1 moves=0 score=0-0"}, handle(t, s, "status"))
	assert.Equal(t, []string{"error bad-command no hand selection in progress"}, handle(t, s, "pick p2 1"))
}

func TestSessionBadSetupOptions(t *testing.T) {
	s := newTestSession(t, "0P00@00", nil)
	five := "0P00@00,0P00@00,0P00@00,0P00@00,0P00@00"

	bad := []string{
		"new hands=[" + five + "]",
		"new hands=[" + five + ";0P00@00]",
		"new hands=[" + five + ";0P00@00,0P00@00,0P00@00,0P00@00,0Q00@00]",
		"new candidates=[" + five + ";" + five + "]",
		"new hands=[" + five + ";" + five + "] candidates=deal",
	}
	for _, cmd := range bad {
		reply := handle(t, s, cmd)
		require.Len(t, reply, 1, cmd)
		assert.True(t, strings.HasPrefix(reply[0], "error bad-command "), "%q -> %q", cmd, reply[0])
	}
	assert.Nil(t, s.Game())
	assert.Equal(t, []string{"error no-game no game in progress"}, handle(t, s, "status"))
}

func TestSessionSaverFailureIsNotFatal(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	s := newTestSession(t, "0P00@00", saver)

	handle(t, s, "new seed=1 blocked=[]")
	var last []string
	for i := range 10 {
		player := "p1"
		if i%2 == 1 {
			player = "p2"
		}
		last = handle(t, s, "place "+player+" "+string(rune('0'+i/2))+" "+string(rune('0'+i)))
	}
	assert.Equal(t, "game-over draw score=5-5", last[1])
	assert.True(t, s.Game().IsOver())
}

func TestSessionBadCommands(t *testing.T) {
	s := newTestSession(t, "1P11@20", nil)

	for _, cmd := range []string{"place p1 0 1", "hand p1", "status", "log"} {
		assert.Equal(t, []string{"error no-game no game in progress"}, handle(t, s, cmd), cmd)
	}

	bad := []string{
		"frobnicate",
		"new seed=abc",
		"new seed",
		"new foo=1",
		"new blocked=[0,G]",
		"new blocked=[1,1]",
		"new blocked=[0,1,2,3,4,5,6]",
	}
	for _, cmd := range bad {
		reply := handle(t, s, cmd)
		require.Len(t, reply, 1, cmd)
		assert.True(t, strings.HasPrefix(reply[0], "error bad-command "), "%q -> %q", cmd, reply[0])
	}
	assert.Nil(t, s.Game(), "failed setup must not start a game")

	handle(t, s, "new seed=1 blocked=[]")
	bad = []string{
		"place p3 0 1",
		"place p1 x 1",
		"place p1 0 Z",
		"place p1 0",
		"hand",
		"hand p9",
		"board extra",
		"status extra",
		"log extra",
	}
	for _, cmd := range bad {
		reply := handle(t, s, cmd)
		require.Len(t, reply, 1, cmd)
		assert.True(t, strings.HasPrefix(reply[0], "error bad-command "), "%q -> %q", cmd, reply[0])
	}

	assert.Nil(t, handle(t, s, "   "))
	_, quit := s.Handle("quit")
	assert.True(t, quit)
}

func TestSessionSeedFallbackAndDeterminism(t *testing.T) {
	pool := []core.Card{
		core.MustParseCard("1P11@81"),
		core.MustParseCard("4M24@C5"),
		core.MustParseCard("8X35@A1"),
		core.MustParseCard("6A56@33"),
	}
	newSession := func() *Session {
		s, err := NewSession(Options{Pool: pool, Runtime: core.DefaultConfig(), Seed: func() int64 { return 77 }})
		require.NoError(t, err)
		return s
	}

	a := handle(t, newSession(), "new")
	require.Len(t, a, 1)
	assert.True(t, strings.HasPrefix(a[0], "setup-ok seed=77 "), a[0])

	b := handle(t, newSession(), "new seed=77")
	assert.Equal(t, a, b)
}

func TestSessionNewReplacesGame(t *testing.T) {
	s := newTestSession(t, "0P00@00", nil)
	handle(t, s, "new seed=1 blocked=[]")
	handle(t, s, "place p1 0 0")

	handle(t, s, "new seed=2 blocked=[3]")
	assert.Equal(t, []string{"status turn=p1 moves=0 score=0-0"}, handle(t, s, "status"))
	assert.Equal(t, []string{"log turn p1", "log-end n=1"}, handle(t, s, "log"))
}

func TestNewSessionErrors(t *testing.T) {
	_, err := NewSession(Options{})
	assert.Error(t, err)

	_, err = NewSession(Options{
		Pool:    []core.Card{core.MustParseCard("1P11@00")},
		Runtime: core.RuntimeConfig{BattleSystem: "no-such-system"},
	})
	assert.Error(t, err)
}

func TestRunWithPrompt(t *testing.T) {
	s, err := NewSession(Options{
		Pool:    []core.Card{core.MustParseCard("0P00@00")},
		Runtime: core.DefaultConfig(),
		Prompt:  "> ",
	})
	require.NoError(t, err)

	in := strings.NewReader("new seed=3 blocked=[]\nstatus\nquit\nstatus\n")
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), in, &out))

	hand := "[0P00@00,0P00@00,0P00@00,0P00@00,0P00@00]"
	assert.Equal(t,
		"> setup-ok seed=3 blocked=[] p1="+hand+" p2="+hand+"\n"+
			"> status turn=p1 moves=0 score=0-0\n"+
			"> ",
		out.String())
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	s := newTestSession(t, "0P00@00", nil)
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), strings.NewReader("status"), &out))
	assert.Equal(t, "error no-game no game in progress\n", out.String())
}

func TestRunHonoursContext(t *testing.T) {
	s := newTestSession(t, "0P00@00", nil)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, pr, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestParseCellList(t *testing.T) {
	cells, err := ParseCellList("[0,3,f]")
	require.NoError(t, err)
	assert.Equal(t, []int{0x0, 0x3, 0xF}, cells)

	cells, err = ParseCellList("5,A")
	require.NoError(t, err)
	assert.Equal(t, []int{0x5, 0xA}, cells)

	cells, err = ParseCellList("[]")
	require.NoError(t, err)
	assert.NotNil(t, cells)
	assert.Empty(t, cells)

	_, err = ParseCellList("[1,,2]")
	assert.Error(t, err)

	assert.Equal(t, "[0,3,F]", FormatCells([]int{0, 3, 15}))
	assert.Equal(t, "[]", FormatCells(nil))
}

func TestParseHandList(t *testing.T) {
	hands, err := ParseHandList("[[1P11@81,4M24@C5,8X35@A1,6A56@33,1P11@00];[3P22@A4,3P22@A4,3P22@A4,3P22@A4,3P22@A4]]", 2)
	require.NoError(t, err)
	require.Len(t, hands, 2)
	assert.Equal(t, core.MustParseCard("8X35@A1"), hands[0][2])
	assert.Equal(t, core.MustParseCard("3P22@A4"), hands[1][4])
	assert.Equal(t,
		"[[1P11@81,4M24@C5,8X35@A1,6A56@33,1P11@00];[3P22@A4,3P22@A4,3P22@A4,3P22@A4,3P22@A4]]",
		FormatHands(hands))

	_, err = ParseHandList("1P11@81,4M24@C5", 1)
	assert.Error(t, err, "short hand")

	_, err = ParseHandList("[1P11@81,4M24@C5,8X35@A1,6A56@33,1P11@00]", 2)
	assert.Error(t, err, "missing hand")
}
