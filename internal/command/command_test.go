package command

import (
	"errors"
	"reflect"
	"testing"

	"github.com/antonyforte/yuanshao-bot/internal/ledger"
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"/start", Start{}},
		{"/inscricao", Register{}},
		{" /inscritos ", ListRegistrants{}},
		{"/entregarmissao", Submit{}},
		{"/missoes", Missions{}},
		{"/shu", ShowTeam{Team: team.Shu}},
		{"/wu", ShowTeam{Team: team.Wu}},
		{"soldiers add shu 500", AdjustSoldiers{Op: ledger.Add, Team: team.Shu, Amount: 500}},
		{"/soldiers remove wei 20", AdjustSoldiers{Op: ledger.Remove, Team: team.Wei, Amount: 20}},
		{"soldiers add wu -30", AdjustSoldiers{Op: ledger.Add, Team: team.Wu, Amount: -30}},
		{"/addsoldados shu 7", AdjustSoldiers{Op: ledger.Add, Team: team.Shu, Amount: 7}},
		{"/removesoldados   wu   9", AdjustSoldiers{Op: ledger.Remove, Team: team.Wu, Amount: 9}},
		{"SOLDIERS ADD SHU 1", AdjustSoldiers{Op: ledger.Add, Team: team.Shu, Amount: 1}},
		{"remove wei 5 rock", AdjustNaipe{Op: ledger.Remove, Team: team.Wei, Naipe: 5, Kind: ledger.Rock}},
		{"/add shu 22 tesoura", AdjustNaipe{Op: ledger.Add, Team: team.Shu, Naipe: 22, Kind: ledger.Scissors}},
		{"add wu 01 papel", AdjustNaipe{Op: ledger.Add, Team: team.Wu, Naipe: 1, Kind: ledger.Paper}},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestParseUnrecognized(t *testing.T) {
	for _, in := range []string{
		"",
		"hello",
		"/inscricao agora",
		"soldiers add han 5",
		"soldiers add shu",
		"soldiers add shu 5 extra",
		"soldiers multiply shu 5",
		"add shu 5",
		"add shu 5 lizard",
		"add shu 100 rock",
		"/han",
		"/SHU",
	} {
		_, err := Parse(in)
		if !errors.Is(err, ErrUnrecognized) {
			t.Errorf("Parse(%q): expected ErrUnrecognized, got %v", in, err)
		}
	}
}

func TestParseNaipeOutOfRange(t *testing.T) {
	for _, in := range []string{"add shu 0 rock", "remove wei 23 paper", "add wu 99 scissors"} {
		cmd, err := Parse(in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Parse(%q): expected ValidationError, got %v (%#v)", in, err, cmd)
			continue
		}
		if verr.Field != "naipe" {
			t.Errorf("Parse(%q): field = %q", in, verr.Field)
		}
	}
}

func TestParseSoldiersOverflow(t *testing.T) {
	_, err := Parse("soldiers add shu 99999999999999999999")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "amount" {
		t.Fatalf("expected amount ValidationError, got %v", err)
	}
}

func TestAdmin(t *testing.T) {
	if !Admin(AdjustSoldiers{}) || !Admin(AdjustNaipe{}) || !Admin(ListRegistrants{}) {
		t.Error("admin commands not flagged")
	}
	if Admin(ShowTeam{}) || Admin(Register{}) || Admin(Missions{}) {
		t.Error("user commands flagged as admin")
	}
}

func TestMenu(t *testing.T) {
	for _, entry := range Menu() {
		cmd, err := Parse("/" + entry.Name)
		if err != nil {
			t.Errorf("menu entry %q does not parse: %v", entry.Name, err)
		}
		if Admin(cmd) {
			t.Errorf("menu entry %q is an admin command", entry.Name)
		}
	}
}
