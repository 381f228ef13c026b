package depth

import "strings"

const noteHeader = "Altimeter depth calculated from pressure" +
	" (Average_AltimeterPressure field) as:\n\n     depth = p/(g*rho)\n"

// Record is one resolution step in the provenance trail: which step
// ran, how its input was resolved, and the human-readable detail.
type Record struct {
	Step     string
	Decision string
	Detail   string
}

// Provenance accumulates resolution records during a computation and
// renders them to the free-text note attached to the depth field.
type Provenance struct {
	records []Record
}

// Add appends a record.
func (p *Provenance) Add(step, decision, detail string) {
	p.records = append(p.records, Record{Step: step, Decision: decision, Detail: detail})
}

// Records returns the accumulated records.
func (p *Provenance) Records() []Record {
	return p.records
}

// Render produces the note text: a fixed header plus one bullet per
// record.
func (p *Provenance) Render() string {
	var b strings.Builder
	b.WriteString(noteHeader)
	for _, r := range p.records {
		b.WriteString("\n- ")
		b.WriteString(r.Detail)
	}
	return b.String()
}
