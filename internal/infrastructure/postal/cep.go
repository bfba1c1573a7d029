package postal

import (
	"sort"
	"strconv"
)

// cepRange covers postal codes by their five-digit prefix, both ends inclusive.
type cepRange struct {
	from, to int
	state    string
}

// Five-digit CEP prefix ranges per state, as published by Correios.
var cepRanges = []cepRange{
	{1000, 19999, "SP"},
	{20000, 28999, "RJ"},
	{29000, 29999, "ES"},
	{30000, 39999, "MG"},
	{40000, 48999, "BA"},
	{49000, 49999, "SE"},
	{50000, 56999, "PE"},
	{57000, 57999, "AL"},
	{58000, 58999, "PB"},
	{59000, 59999, "RN"},
	{60000, 63999, "CE"},
	{64000, 64999, "PI"},
	{65000, 65999, "MA"},
	{66000, 68899, "PA"},
	{68900, 68999, "AP"},
	{69000, 69299, "AM"},
	{69300, 69399, "RR"},
	{69400, 69899, "AM"},
	{69900, 69999, "AC"},
	{70000, 72799, "DF"},
	{72800, 72999, "GO"},
	{73000, 73699, "DF"},
	{73700, 76799, "GO"},
	{76800, 76999, "RO"},
	{77000, 77999, "TO"},
	{78000, 78899, "MT"},
	{79000, 79999, "MS"},
	{80000, 87999, "PR"},
	{88000, 89999, "SC"},
	{90000, 99999, "RS"},
}

// CEPResolver maps Brazilian postal codes to state codes from a static range table.
type CEPResolver struct {
	ranges []cepRange
}

func NewCEPResolver() *CEPResolver {
	ranges := append([]cepRange(nil), cepRanges...)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].from < ranges[j].from })
	return &CEPResolver{ranges: ranges}
}

// StateOf expects an already normalised 8-digit code.
func (c *CEPResolver) StateOf(postalCode string) (string, bool) {
	if len(postalCode) != 8 {
		return "", false
	}
	prefix, err := strconv.Atoi(postalCode[:5])
	if err != nil {
		return "", false
	}
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].to >= prefix })
	if i == len(c.ranges) || prefix < c.ranges[i].from {
		return "", false
	}
	return c.ranges[i].state, true
}
