// Package ratings provides the ELO-style team strength model: baseline
// rating tables, league strength coefficients, per-match rating updates
// and the strength estimator used by the prediction service.
package ratings

// Base configuration defaults.
const (
	DefaultElo           = 1500.0
	DefaultKFactor       = 32.0
	DefaultHomeAdvantage = 65.0

	MinElo = 1000.0
	MaxElo = 2500.0
)

// Config holds the reference data for the rating system. It is built
// once at startup and treated as immutable afterwards, so the
// computation functions can be tested against a swapped-in table.
type Config struct {
	KFactor            float64
	HomeAdvantage      float64
	LeagueCoefficients map[string]float64
	BaselineRatings    map[string]float64
}

// DefaultConfig returns the built-in reference data: pre-seeded ratings
// for major European clubs and league strength coefficients.
func DefaultConfig() Config {
	return Config{
		KFactor:            DefaultKFactor,
		HomeAdvantage:      DefaultHomeAdvantage,
		LeagueCoefficients: defaultLeagueCoefficients(),
		BaselineRatings:    defaultBaselineRatings(),
	}
}

// LeagueCoefficient returns the strength multiplier for a league.
// Unknown leagues get a neutral 1.0.
func (c Config) LeagueCoefficient(league string) float64 {
	if coef, ok := c.LeagueCoefficients[league]; ok {
		return coef
	}
	return 1.0
}

func defaultLeagueCoefficients() map[string]float64 {
	return map[string]float64{
		"Premier League": 1.15,
		"La Liga":        1.10,
		"Bundesliga":     1.05,
		"Serie A":        1.05,
		"Ligue 1":        1.00,
		"Eredivisie":     0.90,
		"Primeira Liga":  0.90,
		"Championship":   0.85,
		"MLS":            0.85,
	}
}

// Baseline ratings reflect historical performance and seed the system
// before any match results are applied.
func defaultBaselineRatings() map[string]float64 {
	return map[string]float64{
		// Premier League
		"Manchester City":         1950,
		"Arsenal":                 1920,
		"Liverpool":               1910,
		"Chelsea":                 1850,
		"Manchester United":       1830,
		"Tottenham Hotspur":       1800,
		"Tottenham":               1800,
		"Newcastle United":        1780,
		"Brighton & Hove Albion":  1750,
		"Brighton":                1750,
		"Aston Villa":             1740,
		"West Ham United":         1720,
		"West Ham":                1720,
		"Brentford":               1700,
		"Crystal Palace":          1690,
		"Fulham":                  1680,
		"Leicester City":          1680,
		"Wolverhampton Wanderers": 1670,
		"Wolves":                  1670,
		"Bournemouth":             1660,
		"Nottingham Forest":       1650,
		"Everton":                 1640,
		"Leeds United":            1620,
		"Southampton":             1600,
		"Sunderland":              1590,
		"Luton Town":              1580,
		"Ipswich Town":            1580,
		"Burnley":                 1570,
		"Sheffield United":        1560,

		// La Liga
		"Real Madrid":     1970,
		"Barcelona":       1940,
		"Atletico Madrid": 1850,
		"Real Sociedad":   1780,
		"Athletic Bilbao": 1760,
		"Real Betis":      1740,
		"Villarreal":      1730,
		"Sevilla":         1720,
		"Valencia":        1700,
		"Girona":          1690,

		// Bundesliga
		"Bayern Munich":       1960,
		"Borussia Dortmund":   1880,
		"Bayer Leverkusen":    1850,
		"RB Leipzig":          1840,
		"Eintracht Frankfurt": 1760,

		// Serie A
		"Inter Milan": 1900,
		"Napoli":      1870,
		"AC Milan":    1850,
		"Juventus":    1840,
		"Atalanta":    1800,
		"Roma":        1780,
		"Lazio":       1760,

		// Ligue 1
		"Paris Saint-Germain": 1920,
		"PSG":                 1920,
		"Monaco":              1780,
		"Marseille":           1760,
		"Lyon":                1740,
		"Lille":               1720,
	}
}
