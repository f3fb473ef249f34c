package phase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstruction_NonEmptyAndDeterministic(t *testing.T) {
	for _, p := range All() {
		t.Run(p.String(), func(t *testing.T) {
			first := Instruction(p)
			assert.NotEmpty(t, first)
			assert.True(t, strings.HasPrefix(first, preamble))
			assert.Greater(t, len(first), len(preamble), "phase detail missing")
			assert.Equal(t, first, Instruction(p))
		})
	}
}

func TestInstruction_UnknownPhaseFallsBackToPreamble(t *testing.T) {
	assert.Equal(t, preamble, Instruction(Phase("bcnf")))
}

func TestInstruction_ReportAsksForSentinel(t *testing.T) {
	assert.Contains(t, Instruction(Report), "FINAL ANSWER")
}

func TestNext(t *testing.T) {
	tests := []struct {
		in   Phase
		want Phase
	}{
		{Init, First},
		{First, Second},
		{Second, Third},
		{Third, SQL},
		{SQL, Report},
		{Report, Report},
		{Phase("bogus"), Report},
		{Phase(""), Report},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got := Next(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestNext_WalkTerminatesAtReport(t *testing.T) {
	p := Init
	for i := 0; i < 20; i++ {
		p = Next(p)
		assert.True(t, p.Valid())
	}
	assert.Equal(t, Report, p)
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   Phase
		wantOK bool
	}{
		{"init", Init, true},
		{"1NF", First, true},
		{" 2nf\n", Second, true},
		{"3Nf", Third, true},
		{"SQL", SQL, true},
		{"report", Report, true},
		{"", "", false},
		{"4nf", "", false},
		{"next: 2nf", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	phases := All()
	assert.Equal(t, []Phase{Init, First, Second, Third, SQL, Report}, phases)
	phases[0] = Report
	assert.Equal(t, Init, All()[0])
}
