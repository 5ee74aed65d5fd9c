package match

// Wildcard is the preference value that matches any partner value on its axis.
const Wildcard = "any"

// Prefs is a connection's desired partner filter. A zero value on any axis is
// normalized to the wildcard. Prefs are snapshotted at queue-join time; a later
// join replaces the snapshot wholesale.
type Prefs struct {
	Language string `json:"language"`
	Country  string `json:"country"`
	Gender   string `json:"gender"`
}

// DefaultPrefs returns a filter that accepts any partner.
func DefaultPrefs() Prefs {
	return Prefs{Language: Wildcard, Country: Wildcard, Gender: Wildcard}
}

// Normalized returns a copy with empty axes replaced by the wildcard.
func (p Prefs) Normalized() Prefs {
	if p.Language == "" {
		p.Language = Wildcard
	}
	if p.Country == "" {
		p.Country = Wildcard
	}
	if p.Gender == "" {
		p.Gender = Wildcard
	}
	return p
}

// Compatible reports whether two preference sets accept each other. An axis is
// satisfied if either side holds the wildcard or both values are equal; overall
// compatibility is a hard AND across all three axes. Symmetric by construction.
func Compatible(p1, p2 Prefs) bool {
	return axisOK(p1.Language, p2.Language) &&
		axisOK(p1.Gender, p2.Gender) &&
		axisOK(p1.Country, p2.Country)
}

func axisOK(a, b string) bool {
	return a == Wildcard || b == Wildcard || a == b
}
