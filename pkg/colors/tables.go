// Package colors resolves wire insulation color codes into the text and
// display colors used on harness diagrams.
//
// Colors are written as two-letter codes (IEC 60757 style). A wire may carry
// up to three codes, e.g. "GNYE" for a green/yellow striped earth conductor.
package colors

// DefaultHex is used for wires without a color and for unknown codes.
const DefaultHex = "#ffffff"

// ShieldColor is the code used to draw shield conductors (tinned copper).
const ShieldColor = "SN"

var hexTable = map[string]string{
	"BK": "#000000",
	"WH": "#ffffff",
	"GY": "#999999",
	"PK": "#ff66cc",
	"RD": "#ff0000",
	"OG": "#ff8000",
	"YE": "#ffff00",
	"OL": "#708000",
	"GN": "#00ff00",
	"TQ": "#00ffff",
	"LB": "#a0dfff",
	"BU": "#0066ff",
	"VT": "#8000ff",
	"BN": "#895956",
	"BG": "#ceb673",
	"IV": "#f5f0d0",
	"SL": "#708090",
	"CU": "#d6775e",
	"SN": "#aaaaaa",
	"SR": "#84878c",
	"GD": "#ffcf80",
}

var fullTable = map[string]string{
	"BK": "black",
	"WH": "white",
	"GY": "grey",
	"PK": "pink",
	"RD": "red",
	"OG": "orange",
	"YE": "yellow",
	"OL": "olive green",
	"GN": "green",
	"TQ": "turquoise",
	"LB": "light blue",
	"BU": "blue",
	"VT": "violet",
	"BN": "brown",
	"BG": "beige",
	"IV": "ivory",
	"SL": "slate",
	"CU": "copper",
	"SN": "tin",
	"SR": "silver",
	"GD": "gold",
}

var gerTable = map[string]string{
	"BK": "sw",
	"WH": "ws",
	"GY": "gr",
	"PK": "rs",
	"RD": "rt",
	"OG": "or",
	"YE": "ge",
	"OL": "ol",
	"GN": "gn",
	"TQ": "tk",
	"LB": "hb",
	"BU": "bl",
	"VT": "vi",
	"BN": "br",
	"BG": "bg",
	"IV": "eb",
	"SL": "si",
	"CU": "ku",
	"SN": "vz",
	"SR": "ag",
	"GD": "au",
}

// ColorCodes are the standard wire color palettes a cable can refer to by name.
var ColorCodes = map[string][]string{
	"DIN": {"WH", "BN", "GN", "YE", "GY", "PK", "BU", "RD", "BK", "VT",
		"GYPK", "RDBU", "WHGN", "BNGN", "WHYE", "YEBN", "WHGY", "GYBN", "WHPK", "PKBN",
		"WHBU", "BNBU", "WHRD", "BNRD", "WHBK", "BNBK", "GYGN", "YEGY", "PKGN", "YEPK",
		"GNBU", "YEBU", "GNRD", "YERD", "GNBK", "YEBK", "GYBU", "PKBU", "GYRD", "PKRD",
		"GYBK", "PKBK", "BUBK", "RDBK"},
	"IEC":    {"BN", "RD", "OG", "YE", "GN", "BU", "VT", "GY", "WH", "BK"},
	"BW":     {"BK", "WH"},
	"TEL":    {"BUWH", "WHBU", "OGWH", "WHOG", "GNWH", "WHGN", "BNWH", "WHBN", "SLWH", "WHSL", "BURD", "RDBU", "OGRD", "RDOG", "GNRD", "RDGN", "BNRD", "RDBN", "SLRD", "RDSL", "BUBK", "BKBU", "OGBK", "BKOG", "GNBK", "BKGN", "BNBK", "BKBN", "SLBK", "BKSL", "BUYE", "YEBU", "OGYE", "YEOG", "GNYE", "YEGN", "BNYE", "YEBN", "SLYE", "YESL", "BUVT", "VTBU", "OGVT", "VTOG", "GNVT", "VTGN", "BNVT", "VTBN", "SLVT", "VTSL"},
	"TELALT": {"WHBU", "BU", "WHOG", "OG", "WHGN", "GN", "WHBN", "BN", "WHSL", "SL", "RDBU", "BURD", "RDOG", "OGRD", "RDGN", "GNRD", "RDBN", "BNRD", "RDSL", "SLRD", "BKBU", "BUBK", "BKOG", "OGBK", "BKGN", "GNBK", "BKBN", "BNBK", "BKSL", "SLBK", "YEBU", "BUYE", "YEOG", "OGYE", "YEGN", "GNYE", "YEBN", "BNYE", "YESL", "SLYE", "VTBU", "BUVT", "VTOG", "OGVT", "VTGN", "GNVT", "VTBN", "BNVT", "VTSL", "SLVT"},
	"T568A":  {"WHGN", "GN", "WHOG", "BU", "WHBU", "OG", "WHBN", "BN"},
	"T568B":  {"WHOG", "OG", "WHGN", "BU", "WHBU", "GN", "WHBN", "BN"},
}

// Known reports whether code is a recognised two-letter color code.
func Known(code string) bool {
	_, ok := hexTable[code]
	return ok
}
