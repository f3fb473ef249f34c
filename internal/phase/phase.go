// Package phase holds the catalog of database normalization phases.
//
// Phases form a closed, ordered set. Raw strings coming from users or from the
// LLM enter the system only through Parse; everything else works with the
// Phase type.
package phase

import "strings"

// Phase is one stage of the normalization pipeline.
type Phase string

const (
	Init   Phase = "init"
	First  Phase = "1nf"
	Second Phase = "2nf"
	Third  Phase = "3nf"
	SQL    Phase = "sql"
	Report Phase = "report"
)

// order is the fixed pipeline sequence.
var order = []Phase{Init, First, Second, Third, SQL, Report}

// preamble is shared by every phase instruction.
const preamble = "You are a MySQL expert assistant. You may only use the execute_query tool to run SQL.\n"

var details = map[Phase]string{
	Init:   "Ask the user to provide raw_table_data (JSON) to start 1NF.",
	First:  "Analyse raw_table_data and convert it into 1NF.",
	Second: "Remove partial dependencies on the full primary key to produce 2NF.",
	Third:  "Remove transitive dependencies to complete 3NF.",
	SQL:    "Turn the 3NF schema into CREATE TABLE DDL. Use the tool in this phase.",
	Report: "Explain the whole process. Start your answer with 'FINAL ANSWER'.",
}

// All returns the phases in pipeline order.
func All() []Phase {
	out := make([]Phase, len(order))
	copy(out, order)
	return out
}

// String implements fmt.Stringer.
func (p Phase) String() string { return string(p) }

// Valid reports whether p is a member of the catalog.
func (p Phase) Valid() bool {
	_, ok := details[p]
	return ok
}

// Parse validates a raw phase word. Surrounding whitespace and case are
// ignored, so "1NF" and " Report\n" are accepted.
func Parse(raw string) (Phase, bool) {
	p := Phase(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// Instruction returns the system instruction for p. Unknown phases get the
// preamble alone.
func Instruction(p Phase) string {
	return preamble + details[p]
}

// Next returns the successor of p. Report is terminal and maps to itself, as
// does any phase outside the catalog.
func Next(p Phase) Phase {
	for i, candidate := range order {
		if candidate == p && i+1 < len(order) {
			return order[i+1]
		}
	}
	return Report
}
