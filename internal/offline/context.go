package offline

import (
	"fmt"
	"regexp"
	"strings"

	"NewsEnricher/internal/domain"
)

var snippetTable = []struct {
	key  string
	text string
}{
	{"china", "China is the most populous country in the world and its second-largest economy, known for a long history, rapid growth and wide global influence."},
	{"trade war", "A trade war is an economic conflict in which countries impose tariffs, barriers and other restrictions on each other's imports and exports."},
	{"rare earth", "Rare earth elements are a group of 17 metals essential to electronics, renewable energy systems and defence technology."},
	{"us-china", "US-China relations cover the diplomatic, economic and strategic relationship between the world's two largest economies."},
	{"geopolitics", "Geopolitics studies how geography, economics and politics shape international relations and global power."},
	{"renewable energy", "Renewable energy comes from sources that replenish naturally but are flow-limited, such as solar, wind, hydroelectric and geothermal power."},
	{"south africa", "South Africa is a country at the southern tip of Africa known for diverse landscapes, rich mineral resources and a complex political history."},
	{"solar power", "Solar power converts sunlight into electricity, either with photovoltaic panels or with concentrated solar power plants."},
	{"wind energy", "Wind energy uses turbines driven by the wind to turn generators and produce electrical power."},
	{"africa", "Africa is the second-largest continent, home to 54 countries and more than 1.3 billion people."},
	{"energy", "Energy is the capacity to do work; it converts between forms such as electrical, thermal and mechanical energy."},
}

// Snippet returns an encyclopedic blurb for topic.
func Snippet(topic string) string {
	t := strings.ToLower(topic)
	for _, row := range snippetTable {
		if strings.Contains(t, row.key) {
			return row.text
		}
	}
	return fmt.Sprintf("An encyclopedia entry on %q would cover its definition, history and significance.", topic)
}

var sentimentRotations = map[Theme][]string{
	ThemeTrade: {
		"45% neutral sentiment (confidence: 60%)",
		"52% mixed sentiment (confidence: 65%)",
		"38% negative sentiment (confidence: 70%)",
		"41% cautious sentiment (confidence: 55%)",
	},
	ThemeEnergy: {
		"74% positive mentions on X in last 24h",
		"68% positive sentiment across social platforms",
		"82% positive engagement on LinkedIn",
		"71% favorable discussion on Twitter",
		"76% positive sentiment on Facebook",
		"69% positive mentions on social media",
	},
	ThemeGeneral: {
		"55% neutral sentiment (confidence: 60%)",
		"48% mixed sentiment (confidence: 65%)",
		"52% moderate sentiment (confidence: 70%)",
		"45% balanced sentiment (confidence: 55%)",
	},
}

var trendRotations = map[Theme][]string{
	ThemeTrade: {
		"'China trade war' +234% trending",
		"'US China tensions' +189% search increase",
		"'Rare earth China' +156% this week",
		"'Trade war 2024' +178% trending topics",
		"'China export controls' +145% search growth",
		"'US China relations' +167% trending",
	},
	ThemeEnergy: {
		"'SA renewables' +150% this week",
		"'African energy' +89% search increase",
		"'Solar Africa' +134% trending",
		"'Green energy' +112% this month",
		"'Renewable power' +98% search growth",
		"'Clean energy' +156% trending topics",
	},
	ThemeGeneral: {
		"'Global news' +78% this week",
		"'International politics' +89% search increase",
		"'World events' +67% trending",
		"'Breaking news' +112% this month",
		"'Current events' +98% search growth",
		"'News analysis' +134% trending topics",
	},
}

// Sentiment returns a social sentiment line chosen by a stable hash of the input.
func Sentiment(title string, tags []string) string {
	return rotate(sentimentRotations, title, tags)
}

// Trend returns a search-trend line chosen by a stable hash of the input.
func Trend(title string, tags []string) string {
	return rotate(trendRotations, title, tags)
}

func rotate(rotations map[Theme][]string, title string, tags []string) string {
	theme := Classify(searchText(title, tags))
	options, ok := rotations[theme]
	if !ok {
		options = rotations[ThemeGeneral]
	}
	return Pick(options, rotationKey(title, tags))
}

type place struct {
	pattern *regexp.Regexp
	lat     float64
	lng     float64
	address string
}

func newPlace(name string, lat, lng float64, address string) place {
	return place{
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`),
		lat:     lat,
		lng:     lng,
		address: address,
	}
}

// Most specific names first so a city wins over its country.
var places = []place{
	newPlace("cape town", -33.9249, 18.4241, "South Africa"),
	newPlace("johannesburg", -26.2041, 28.0473, "South Africa"),
	newPlace("pretoria", -25.7479, 28.2293, "South Africa"),
	newPlace("durban", -29.8587, 31.0218, "South Africa"),
	newPlace("south africa", -30.5595, 22.9375, "South Africa"),
	newPlace("beijing", 39.9042, 116.4074, "China"),
	newPlace("shanghai", 31.2304, 121.4737, "China"),
	newPlace("china", 35.86166, 104.195397, "China"),
	newPlace("washington", 38.9072, -77.0369, "United States"),
	newPlace("united states", 39.8283, -98.5795, "United States"),
	newPlace("usa", 39.8283, -98.5795, "United States"),
	newPlace("africa", -8.7832, 34.5085, "Africa"),
}

var defaultPlace = newPlace("pretoria", -25.7479, 28.2293, "South Africa")

// Geo matches known place names in the article and defaults to South Africa.
func Geo(title, body string) domain.Geo {
	text := strings.ToLower(title + " " + body)
	for _, p := range places {
		if p.pattern.MatchString(text) {
			return domain.NewGeo(p.lat, p.lng, p.address)
		}
	}
	return domain.NewGeo(defaultPlace.lat, defaultPlace.lng, defaultPlace.address)
}
