package teams

// DefaultTable returns the team codes observed in the live-list feed.
// Several codes map to the same side because the provider issues separate
// codes per competition.
func DefaultTable() Table {
	return Table{
		"R":   {Name: "New Zealand", ShortName: "NZ", Flag: flag("nz"), Code: "NZ"},
		"O":   {Name: "India", ShortName: "IND", Flag: flag("in"), Code: "IND"},
		"A":   {Name: "Australia", ShortName: "AUS", Flag: flag("au"), Code: "AUS"},
		"E":   {Name: "England", ShortName: "ENG", Flag: flag("gb"), Code: "ENG"},
		"P":   {Name: "Pakistan", ShortName: "PAK", Flag: flag("pk"), Code: "PAK"},
		"S":   {Name: "South Africa", ShortName: "RSA", Flag: flag("za"), Code: "RSA"},
		"W":   {Name: "West Indies", ShortName: "WI", Flag: flag("ag"), Code: "WI"},
		"L":   {Name: "Sri Lanka", ShortName: "SL", Flag: flag("lk"), Code: "SL"},
		"B":   {Name: "Bangladesh", ShortName: "BAN", Flag: flag("bd"), Code: "BAN"},
		"F":   {Name: "Afghanistan", ShortName: "AFG", Flag: flag("af"), Code: "AFG"},
		"MZ":  {Name: "Pretoria Capitals", ShortName: "PC", Flag: flag("za"), Code: "PC"},
		"MY":  {Name: "Pretoria Capitals", ShortName: "PC", Flag: flag("za"), Code: "PC"},
		"MW":  {Name: "MI Cape Town", ShortName: "MICT", Flag: flag("za"), Code: "MICT"},
		"MX":  {Name: "MI Cape Town", ShortName: "MICT", Flag: flag("za"), Code: "MICT"},
		"N0":  {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"N1":  {Name: "Team 2", ShortName: "T2", Flag: flag("xx"), Code: "T2"},
		"NW":  {Name: "Western Australia Women", ShortName: "WA-W", Flag: flag("au"), Code: "WA-W"},
		"NV":  {Name: "Western Australia Women", ShortName: "WA-W", Flag: flag("au"), Code: "WA-W"},
		"57":  {Name: "Northern Brave", ShortName: "NB", Flag: flag("nz"), Code: "NB"},
		"54":  {Name: "Northern Brave", ShortName: "NB", Flag: flag("nz"), Code: "NB"},
		"JU":  {Name: "Wellington Women", ShortName: "WELL-W", Flag: flag("nz"), Code: "WELL-W"},
		"JS":  {Name: "Wellington Women", ShortName: "WELL-W", Flag: flag("nz"), Code: "WELL-W"},
		"JT":  {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"JV":  {Name: "Team 2", ShortName: "T2", Flag: flag("xx"), Code: "T2"},
		"52":  {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"53":  {Name: "Team 2", ShortName: "T2", Flag: flag("xx"), Code: "T2"},
		"H9":  {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"GP":  {Name: "Team 2", ShortName: "T2", Flag: flag("xx"), Code: "T2"},
		"HD":  {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"GT":  {Name: "Team 2", ShortName: "T2", Flag: flag("xx"), Code: "T2"},
		"T":   {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"U":   {Name: "Team 2", ShortName: "T2", Flag: flag("xx"), Code: "T2"},
		"QJ":  {Name: "Gujarat Giants Women", ShortName: "GGW", Flag: flag("in"), Code: "GGW"},
		"QM":  {Name: "Gujarat Giants Women", ShortName: "GGW", Flag: flag("in"), Code: "GGW"},
		"QI":  {Name: "Gujarat Giants Women", ShortName: "GGW", Flag: flag("in"), Code: "GGW"},
		"5T":  {Name: "Rajshahi Warriors", ShortName: "RJW", Flag: flag("bd"), Code: "RJW"},
		"AH":  {Name: "Rajshahi Warriors", ShortName: "RJW", Flag: flag("bd"), Code: "RJW"},
		"1E1": {Name: "Noakhali Express", ShortName: "NEX", Flag: flag("bd"), Code: "NEX"},
		"UC":  {Name: "Noakhali Express", ShortName: "NEX", Flag: flag("bd"), Code: "NEX"},
		"8O":  {Name: "Sri Lanka U19", ShortName: "SL-U19", Flag: flag("lk"), Code: "SL-U19"},
		"8H":  {Name: "Sri Lanka U19", ShortName: "SL-U19", Flag: flag("lk"), Code: "SL-U19"},
		"K7":  {Name: "Majees Titans", ShortName: "MT", Flag: flag("xx"), Code: "MT"},
		"K3":  {Name: "Majees Titans", ShortName: "MT", Flag: flag("xx"), Code: "MT"},
		"1E6": {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"K2":  {Name: "Team 2", ShortName: "T2", Flag: flag("xx"), Code: "T2"},
		"K5":  {Name: "Team 1", ShortName: "T1", Flag: flag("xx"), Code: "T1"},
		"4O":  {Name: "Delhi Capitals Women", ShortName: "DCW", Flag: flag("in"), Code: "DCW"},
		"40":  {Name: "Delhi Capitals Women", ShortName: "DCW", Flag: flag("in"), Code: "DCW"},
		"4N":  {Name: "Gujarat Giants Women", ShortName: "GGW", Flag: flag("in"), Code: "GGW"},
		"4Q":  {Name: "Gujarat Giants Women", ShortName: "GGW", Flag: flag("in"), Code: "GGW"},
	}
}

func flag(country string) string {
	return "https://flagcdn.com/w40/" + country + ".png"
}
