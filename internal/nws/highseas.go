package nws

// highSeasFiles maps each high seas region, by its name in the zone
// geometry, to its bulletin file under the raw text directory. Names are
// matched exactly, including their irregular spacing.
var highSeasFiles = map[string]string{
	"North Atlantic Ocean between 31N and 67N latitude and between the East Coast North America and 35W longitude":                          "fznt01.kwbc.hsf.at1.txt",
	"Atlantic Ocean West of 35W longitude between 31N latitude and 7N latitude .  This includes the Caribbean and the Gulf of Mexico":        "fznt02.knhc.hsf.at2.txt",
	"North Pacific Ocean between 30N and the Bering Strait and between the West Coast of North America and 160E Longitude":                  "fzpn02.kwbc.hsf.epi.txt",
	"Central North Pacific Ocean between the Equator and 30N latitude and between 140W longitude and 160E longitude":                         "fzpn40.phfo.hsf.np.txt",
	"Eastern North Pacific Ocean between the Equator and 30N latitude and east of 140W longitude and 3.4S to Equator east of 120W longitude": "fzpn03.knhc.hsf.ep2.txt",
	"Central South Pacific Ocean between the Equator and 25S latitude and between 120W longitude and 160E longitude":                         "fzps40.phfo.hsf.sp.txt",
}

// HighSeasRegions returns the names of the high seas regions with a
// known bulletin.
func HighSeasRegions() []string {
	names := make([]string, 0, len(highSeasFiles))
	for name := range highSeasFiles {
		names = append(names, name)
	}
	return names
}
