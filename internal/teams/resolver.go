// Package teams maps the opaque short team codes used by the live-list
// provider to canonical team identity.
package teams

// PlaceholderFlag is served for codes that are not in the table.
const PlaceholderFlag = "https://flagcdn.com/w40/xx.png"

// Info is the canonical identity of a team.
type Info struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Flag      string `json:"flag"`
	Code      string `json:"code"`
}

// Table maps provider codes to team identity. It is built once and never
// mutated, so it can be shared between goroutines without locking.
type Table map[string]Info

// Resolver looks team codes up in a Table.
type Resolver struct {
	table Table
}

// NewResolver wraps table. A nil table resolves every code to its fallback.
func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve returns the team for code. Codes are matched exactly; an unknown
// code yields a record echoing the code with the placeholder flag.
func (r *Resolver) Resolve(code string) Info {
	if info, ok := r.table[code]; ok {
		return info
	}
	return Info{
		Name:      code,
		ShortName: code,
		Flag:      PlaceholderFlag,
		Code:      code,
	}
}

// Name returns the full team name for code.
func (r *Resolver) Name(code string) string {
	return r.Resolve(code).Name
}

// Flag returns the flag URL for code.
func (r *Resolver) Flag(code string) string {
	return r.Resolve(code).Flag
}

// ShortName returns the abbreviated team name for code.
func (r *Resolver) ShortName(code string) string {
	return r.Resolve(code).ShortName
}
