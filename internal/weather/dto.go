package weather

import (
	"time"

	"github.com/skycasthq/skycast-backend/internal/cities"
	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/weatherapi"
)

// QueryKind selects how a lookup identifies its target city.
type QueryKind string

const (
	QueryByName        QueryKind = "name"
	QueryByCoordinates QueryKind = "coordinates"
)

// Query is a tagged lookup target: either a city name or a coordinate pair.
type Query struct {
	Kind      QueryKind
	Name      string
	Latitude  float64
	Longitude float64
}

// NameQuery builds a by-name lookup.
func NameQuery(name string) Query {
	return Query{Kind: QueryByName, Name: name}
}

// CoordinateQuery builds a by-coordinates lookup.
func CoordinateQuery(latitude, longitude float64) Query {
	return Query{Kind: QueryByCoordinates, Latitude: latitude, Longitude: longitude}
}

// Validate checks the query fields against its kind.
func (q Query) Validate() error {
	switch q.Kind {
	case QueryByName:
		if q.Name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "city name is required")
		}
		return nil
	case QueryByCoordinates:
		if q.Latitude < -90 || q.Latitude > 90 {
			return pkgerrors.New(pkgerrors.CodeValidation, "latitude must be between -90 and 90")
		}
		if q.Longitude < -180 || q.Longitude > 180 {
			return pkgerrors.New(pkgerrors.CodeValidation, "longitude must be between -180 and 180")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown query kind")
	}
}

func (q Query) providerQuery() string {
	if q.Kind == QueryByCoordinates {
		return weatherapi.FormatCoordinates(q.Latitude, q.Longitude)
	}
	return q.Name
}

// LocationDTO is the provider-resolved place for a report.
type LocationDTO struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Localtime string  `json:"localtime"`
}

// ConditionDTO describes the textual conditions of a reading.
type ConditionDTO struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// AirQualityDTO carries the optional pollutant readings.
type AirQualityDTO struct {
	CO           float64 `json:"co"`
	NO2          float64 `json:"no2"`
	O3           float64 `json:"o3"`
	SO2          float64 `json:"so2"`
	PM25         float64 `json:"pm2_5"`
	PM10         float64 `json:"pm10"`
	USEPAIndex   int     `json:"us_epa_index"`
	GBDefraIndex int     `json:"gb_defra_index"`
}

// CurrentDTO holds the current conditions block of a report.
type CurrentDTO struct {
	LastUpdated string         `json:"last_updated"`
	TempC       float64        `json:"temp_c"`
	TempF       float64        `json:"temp_f"`
	IsDay       int            `json:"is_day"`
	Condition   ConditionDTO   `json:"condition"`
	WindKph     float64        `json:"wind_kph"`
	WindDir     string         `json:"wind_dir"`
	PressureMb  float64        `json:"pressure_mb"`
	PrecipMm    float64        `json:"precip_mm"`
	Humidity    int            `json:"humidity"`
	Cloud       int            `json:"cloud"`
	FeelsLikeC  float64        `json:"feelslike_c"`
	FeelsLikeF  float64        `json:"feelslike_f"`
	VisKm       float64        `json:"vis_km"`
	UV          float64        `json:"uv"`
	GustKph     float64        `json:"gust_kph"`
	AirQuality  *AirQualityDTO `json:"air_quality,omitempty"`
}

// ReportDTO is a full current conditions report.
type ReportDTO struct {
	Location LocationDTO `json:"location"`
	Current  CurrentDTO  `json:"current"`
}

// SearchResultDTO pairs a recorded search with its weather report.
type SearchResultDTO struct {
	City       cities.CityDTO `json:"city"`
	Report     ReportDTO      `json:"report"`
	SearchedAt time.Time      `json:"searched_at"`
}

// ReportFromObservation maps a provider observation to the API shape.
func ReportFromObservation(obs *weatherapi.Observation) ReportDTO {
	if obs == nil {
		return ReportDTO{}
	}

	var aq *AirQualityDTO
	if obs.Current.AirQuality != nil {
		aq = &AirQualityDTO{
			CO:           obs.Current.AirQuality.CO,
			NO2:          obs.Current.AirQuality.NO2,
			O3:           obs.Current.AirQuality.O3,
			SO2:          obs.Current.AirQuality.SO2,
			PM25:         obs.Current.AirQuality.PM25,
			PM10:         obs.Current.AirQuality.PM10,
			USEPAIndex:   obs.Current.AirQuality.USEPAIndex,
			GBDefraIndex: obs.Current.AirQuality.GBDefraIndex,
		}
	}

	return ReportDTO{
		Location: LocationDTO{
			Name:      obs.Location.Name,
			Region:    obs.Location.Region,
			Country:   obs.Location.Country,
			Latitude:  obs.Location.Latitude,
			Longitude: obs.Location.Longitude,
			Localtime: obs.Location.Localtime,
		},
		Current: CurrentDTO{
			LastUpdated: obs.Current.LastUpdated,
			TempC:       obs.Current.TempC,
			TempF:       obs.Current.TempF,
			IsDay:       obs.Current.IsDay,
			Condition: ConditionDTO{
				Text: obs.Current.Condition.Text,
				Icon: obs.Current.Condition.Icon,
				Code: obs.Current.Condition.Code,
			},
			WindKph:    obs.Current.WindKph,
			WindDir:    obs.Current.WindDir,
			PressureMb: obs.Current.PressureMb,
			PrecipMm:   obs.Current.PrecipMm,
			Humidity:   obs.Current.Humidity,
			Cloud:      obs.Current.Cloud,
			FeelsLikeC: obs.Current.FeelsLikeC,
			FeelsLikeF: obs.Current.FeelsLikeF,
			VisKm:      obs.Current.VisKm,
			UV:         obs.Current.UV,
			GustKph:    obs.Current.GustKph,
			AirQuality: aq,
		},
	}
}
