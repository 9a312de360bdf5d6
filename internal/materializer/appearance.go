package materializer

import (
	"math"

	"starforge/internal/celestial"
	"starforge/internal/random"
)

type starBand struct {
	maxMass float64 // in units of StarConfig.MassMultiplier
	class   string
	color   string
}

// Mass bands ordered by upper bound; the last band is open-ended.
var starBands = []starBand{
	{0.45, "M", "#ffb56c"},
	{0.8, "K", "#ffd2a1"},
	{1.04, "G", "#fff4ea"},
	{1.4, "F", "#f8f7ff"},
	{2.1, "A", "#cad7ff"},
	{16, "B", "#aabfff"},
	{math.Inf(1), "O", "#9bb0ff"},
}

// starAppearance is a deterministic lookup; it consumes no draws.
func starAppearance(mass, multiplier float64) (class, color string) {
	rel := mass
	if multiplier > 0 {
		rel = mass / multiplier
	}
	for _, band := range starBands {
		if rel < band.maxMass {
			return band.class, band.color
		}
	}
	last := starBands[len(starBands)-1]
	return last.class, last.color
}

var planetPalettes = map[celestial.PlanetClass][]string{
	celestial.PlanetClassBarren:      {"#8c8c8c", "#a39382", "#6f6a64", "#b5a999"},
	celestial.PlanetClassTerrestrial: {"#3f7cc4", "#4f9a5b", "#6b8f71", "#2e6fa8"},
	celestial.PlanetClassGasGiant:    {"#d9a066", "#c98f5b", "#e3c18f", "#b7794a", "#9fb5d6"},
	celestial.PlanetClassIce:         {"#bfe3f2", "#9ccfe6", "#e1f4fb", "#86b8cf"},
	celestial.PlanetClassVolcanic:    {"#8b2e1a", "#b5441f", "#5e1f14", "#d35d2a"},
}

var moonClasses = []celestial.PlanetClass{
	celestial.PlanetClassBarren,
	celestial.PlanetClassIce,
	celestial.PlanetClassVolcanic,
}

func paletteColor(s *random.Stream, class celestial.PlanetClass) string {
	palette, ok := planetPalettes[class]
	if !ok {
		palette = planetPalettes[celestial.PlanetClassBarren]
	}
	return random.Pick(s, palette)
}

// radius = mass^power * scale
func radius(mass, power, scale float64) float64 {
	r := math.Pow(mass, power) * scale
	return random.Finite(r, scale)
}

// systemNames is the catalogue systems are named from.
var systemNames = []string{
	"Altair", "Vega", "Sirius", "Arcturus", "Capella", "Rigel", "Procyon",
	"Betelgeuse", "Aldebaran", "Spica", "Antares", "Pollux", "Fomalhaut",
	"Deneb", "Regulus", "Adhara", "Castor", "Gacrux", "Bellatrix", "Elnath",
	"Miaplacidus", "Alnilam", "Alnair", "Alioth", "Dubhe", "Mirfak", "Wezen",
	"Sargas", "Kaus", "Avior", "Menkalinan", "Atria", "Alhena", "Peacock",
	"Alsephina", "Mirzam", "Polaris", "Alphard", "Hamal", "Algieba", "Diphda",
	"Mizar", "Nunki", "Menkent", "Mirach", "Alpheratz", "Rasalhague", "Kochab",
	"Saiph", "Zubenelgenubi", "Enif", "Schedar", "Markab", "Unukalhai", "Tau",
}

var romanNumerals = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI",
}

func roman(i int) string {
	if i < len(romanNumerals) {
		return romanNumerals[i]
	}
	return romanNumerals[len(romanNumerals)-1] + "+"
}

// letter maps 0 -> "a", 25 -> "z", 26 -> "aa".
func letter(i int) string {
	out := ""
	for {
		out = string(rune('a'+i%26)) + out
		i = i/26 - 1
		if i < 0 {
			return out
		}
	}
}
