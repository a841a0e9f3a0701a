package nws

// skippedZones lists coastal and offshore zones that appear in the zone
// geometry but for which no bulletin is published upstream.
var skippedZones = map[string]struct{}{
	"AMZ170": {}, "AMZ172": {}, "AMZ174": {}, "AMZ176": {}, "AMZ178": {},
	"AMZ270": {}, "AMZ272": {}, "AMZ274": {}, "AMZ276": {}, "AMZ370": {},
	"AMZ372": {},
	"ANZ070": {}, "ANZ071": {}, "ANZ170": {}, "ANZ172": {}, "ANZ174": {},
	"ANZ270": {}, "ANZ271": {}, "ANZ272": {}, "ANZ273": {}, "ANZ370": {},
	"ANZ373": {}, "ANZ375": {}, "ANZ470": {}, "ANZ471": {}, "ANZ472": {},
	"ANZ473": {}, "ANZ475": {}, "ANZ670": {}, "ANZ672": {}, "ANZ674": {},
	"ANZ676": {}, "ANZ678": {},
	"LCZ422": {}, "LCZ423": {}, "LCZ460": {},
	"LEZ020": {}, "LEZ040": {}, "LEZ041": {}, "LEZ061": {}, "LEZ142": {},
	"LEZ143": {}, "LEZ144": {}, "LEZ145": {}, "LEZ146": {}, "LEZ147": {},
	"LEZ148": {}, "LEZ149": {}, "LEZ162": {}, "LEZ163": {}, "LEZ164": {},
	"LEZ165": {}, "LEZ166": {}, "LEZ167": {}, "LEZ168": {}, "LEZ169": {},
	"LEZ444": {},
	"LHZ345": {}, "LHZ346": {}, "LHZ347": {}, "LHZ348": {}, "LHZ349": {},
	"LHZ361": {}, "LHZ362": {}, "LHZ363": {}, "LHZ421": {}, "LHZ422": {},
	"LHZ441": {}, "LHZ442": {}, "LHZ443": {}, "LHZ462": {}, "LHZ463": {},
	"LHZ464": {},
	"LMZ043": {}, "LMZ046": {}, "LMZ080": {}, "LMZ221": {}, "LMZ248": {},
	"LMZ250": {}, "LMZ261": {}, "LMZ323": {}, "LMZ341": {}, "LMZ342": {},
	"LMZ344": {}, "LMZ345": {}, "LMZ346": {}, "LMZ362": {}, "LMZ364": {},
	"LMZ366": {}, "LMZ521": {}, "LMZ522": {}, "LMZ541": {}, "LMZ542": {},
	"LMZ543": {}, "LMZ563": {}, "LMZ565": {}, "LMZ567": {}, "LMZ643": {},
	"LMZ644": {}, "LMZ645": {}, "LMZ646": {}, "LMZ669": {}, "LMZ671": {},
	"LMZ673": {}, "LMZ675": {}, "LMZ740": {}, "LMZ741": {}, "LMZ742": {},
	"LMZ743": {}, "LMZ744": {}, "LMZ745": {}, "LMZ777": {}, "LMZ779": {},
	"LMZ844": {}, "LMZ845": {}, "LMZ846": {}, "LMZ847": {}, "LMZ848": {},
	"LMZ849": {}, "LMZ868": {}, "LMZ870": {}, "LMZ872": {}, "LMZ874": {},
	"LMZ876": {}, "LMZ878": {},
	"LOZ030": {}, "LOZ042": {}, "LOZ043": {}, "LOZ044": {}, "LOZ045": {},
	"LOZ062": {}, "LOZ063": {}, "LOZ064": {}, "LOZ065": {},
	"LSZ121": {}, "LSZ140": {}, "LSZ141": {}, "LSZ142": {}, "LSZ143": {},
	"LSZ144": {}, "LSZ145": {}, "LSZ146": {}, "LSZ147": {}, "LSZ148": {},
	"LSZ150": {}, "LSZ162": {}, "LSZ240": {}, "LSZ241": {}, "LSZ242": {},
	"LSZ243": {}, "LSZ244": {}, "LSZ245": {}, "LSZ246": {}, "LSZ247": {},
	"LSZ248": {}, "LSZ249": {}, "LSZ250": {}, "LSZ251": {}, "LSZ263": {},
	"LSZ264": {}, "LSZ265": {}, "LSZ266": {}, "LSZ267": {}, "LSZ321": {},
	"LSZ322": {},
	"PMZ191": {},
	"PZZ110": {}, "PZZ130": {}, "PZZ131": {}, "PZZ132": {}, "PZZ133": {},
	"PZZ134": {}, "PZZ135": {}, "PZZ150": {}, "PZZ153": {}, "PZZ156": {},
	"PZZ170": {}, "PZZ173": {}, "PZZ176": {}, "PZZ210": {}, "PZZ251": {},
	"PZZ252": {}, "PZZ253": {}, "PZZ271": {}, "PZZ272": {}, "PZZ273": {},
	"PZZ350": {}, "PZZ356": {}, "PZZ370": {}, "PZZ376": {}, "PZZ410": {},
	"PZZ415": {}, "PZZ450": {}, "PZZ455": {}, "PZZ470": {}, "PZZ475": {},
	"PZZ530": {}, "PZZ531": {}, "PZZ535": {}, "PZZ540": {}, "PZZ545": {},
	"PZZ560": {}, "PZZ565": {}, "PZZ570": {}, "PZZ571": {}, "PZZ575": {},
	"PZZ576": {}, "PZZ645": {}, "PZZ650": {}, "PZZ655": {}, "PZZ670": {},
	"PZZ673": {}, "PZZ676": {}, "PZZ750": {}, "PZZ775": {}, "PZZ800": {},
	"PZZ805": {}, "PZZ810": {}, "PZZ815": {}, "PZZ820": {}, "PZZ825": {},
	"PZZ830": {}, "PZZ835": {}, "PZZ840": {}, "PZZ900": {}, "PZZ905": {},
	"PZZ910": {}, "PZZ915": {}, "PZZ920": {}, "PZZ925": {}, "PZZ930": {},
	"PZZ935": {}, "PZZ940": {}, "PZZ945": {},
	"SLZ022": {}, "SLZ024": {},
}

// Skipped reports whether zoneID is known to have no upstream bulletin.
func Skipped(zoneID string) bool {
	_, ok := skippedZones[zoneID]
	return ok
}

// SkippedZones returns the IDs of every zone known to have no upstream
// bulletin.
func SkippedZones() []string {
	ids := make([]string, 0, len(skippedZones))
	for id := range skippedZones {
		ids = append(ids, id)
	}
	return ids
}
