// Package config provides configuration loading and defaults for artawatch.
package config

// DefaultConfigDir is the default location for artawatch configuration.
const DefaultConfigDir = "~/.config/artawatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "artawatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultCampuses are the campus names offered when encoding.
var DefaultCampuses = []string{
	"Sorsogon City Campus",
	"Bulan Campus",
	"Castilla Campus",
	"Magallanes Campus",
}

// DefaultOffices seed the office list the first time the database is opened.
var DefaultOffices = []string{"ICT", "HR", "Finance", "Operations"}

// DefaultProblemThreshold is the score below which a charter or SQD metric
// is reported as a problem area.
const DefaultProblemThreshold = 70.0

// DefaultTopServices is the number of services listed per group.
const DefaultTopServices = 10

// DefaultLowOfficeMinResponses is the fewest responses an office needs
// before it can be flagged as low performing.
const DefaultLowOfficeMinResponses = 5

// DefaultDissatisfactionAlert is the office dissatisfaction rate (percent)
// at which an office is reported as a hot spot.
const DefaultDissatisfactionAlert = 10.0

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
