package score

// Ranks lists the profile categories collaborators offer for selection.
var Ranks = []string{
	"Sgt", "SSgt", "GySgt", "MSgt", "1stSgt", "MGySgt", "SgtMaj",
	"WO", "CWO2", "CWO3", "CWO4", "CWO5",
	"2ndLt", "1stLt", "Capt", "Maj", "LtCol", "Col",
}

// IsKnownRank reports whether rank is one of Ranks (exact match).
func IsKnownRank(rank string) bool {
	for _, r := range Ranks {
		if r == rank {
			return true
		}
	}
	return false
}
