package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/greenpulse/greenpulse-cli/internal/cache"
	"github.com/greenpulse/greenpulse-cli/internal/properties"
)

const fetchRetries = 3

var retryDelay = 10 * time.Second

type HourlyData struct {
	Time             []string  `json:"time"`
	RelativeHumidity []float64 `json:"relative_humidity_2m"`
}

type DailyData struct {
	Time          []string  `json:"time"`
	Temperature   []float64 `json:"temperature_2m_mean"`
	Precipitation []float64 `json:"precipitation_sum"`
}

type WeatherResponse struct {
	Hourly HourlyData `json:"hourly"`
	Daily  DailyData  `json:"daily"`
}

// Weather holds one day of conditions at a point.
type Weather struct {
	Precipitation float64
	Temperature   float64
	Humidity      float64
}

type HistoricalWeather map[time.Time]Weather

// WindowSummary reduces a date range of daily conditions to the
// figures worth printing next to a change run.
type WindowSummary struct {
	Days               int
	TotalPrecipitation float64
	MeanTemperature    float64
	MeanHumidity       float64
}

func calculateMeanHumidity(hourlyData HourlyData) map[string]float64 {
	dailyHumidity := make(map[string][]float64)
	meanHumidity := make(map[string]float64)

	for i, t := range hourlyData.Time {
		if i >= len(hourlyData.RelativeHumidity) || len(t) < 10 {
			break
		}
		date := t[:10] // Extract the date (YYYY-MM-DD)
		dailyHumidity[date] = append(dailyHumidity[date], hourlyData.RelativeHumidity[i])
	}

	for date, humidities := range dailyHumidity {
		var sum float64
		for _, h := range humidities {
			sum += h
		}
		meanHumidity[date] = sum / float64(len(humidities))
	}

	return meanHumidity
}

func parseResponse(weatherData WeatherResponse) (HistoricalWeather, error) {
	parsed := HistoricalWeather{}
	humidity := calculateMeanHumidity(weatherData.Hourly)

	for i, date := range weatherData.Daily.Time {
		if i >= len(weatherData.Daily.Temperature) || i >= len(weatherData.Daily.Precipitation) {
			break
		}
		parsedDate, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %v", err)
		}
		parsed[parsedDate] = Weather{
			Temperature:   weatherData.Daily.Temperature[i],
			Precipitation: weatherData.Daily.Precipitation[i],
			Humidity:      humidity[date],
		}
	}

	return parsed, nil
}

// FetchWeather downloads daily historical conditions at a point from
// the Open-Meteo archive. Responses are cached under the data
// directory; the archive never rewrites past days.
func FetchWeather(ctx context.Context, latitude, longitude float64, startDate, endDate time.Time) (HistoricalWeather, error) {
	fileCache := cache.NewFileCache[HistoricalWeather]("weather")
	key := fileCache.GenerateKey(
		fmt.Sprintf("%f", latitude), fmt.Sprintf("%f", longitude),
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	if cached, ok := fileCache.Get(key); ok {
		return cached, nil
	}

	url := properties.OpenMeteoHost()
	params := fmt.Sprintf("?latitude=%f&longitude=%f&start_date=%s&end_date=%s&daily=temperature_2m_mean,precipitation_sum&hourly=relative_humidity_2m",
		latitude, longitude, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var attempt int
	for attempt < fetchRetries {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+params, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Failed to retrieve weather: %v. Retrying... (%d/%d)\n", err, attempt+1, fetchRetries)
			time.Sleep(retryDelay)
			attempt++
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var weatherData WeatherResponse
			err = json.NewDecoder(resp.Body).Decode(&weatherData)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to parse response: %v", err)
			}

			parsed, err := parseResponse(weatherData)
			if err != nil {
				return nil, err
			}

			if err := fileCache.Set(key, parsed); err != nil {
				fmt.Printf("\033[33mFailed to cache weather data: %v\033[0m\n", err)
			}
			return parsed, nil
		}

		resp.Body.Close()
		fmt.Printf("Failed to retrieve weather: %d. Retrying... (%d/%d)\n", resp.StatusCode, attempt+1, fetchRetries)
		time.Sleep(retryDelay)
		attempt++
	}

	return nil, fmt.Errorf("failed to retrieve weather after %d attempts", fetchRetries)
}

// Summarize reduces daily conditions to window totals and means.
func Summarize(hw HistoricalWeather) WindowSummary {
	summary := WindowSummary{Days: len(hw)}
	if summary.Days == 0 {
		return summary
	}

	for _, day := range hw {
		summary.TotalPrecipitation += day.Precipitation
		summary.MeanTemperature += day.Temperature
		summary.MeanHumidity += day.Humidity
	}
	summary.MeanTemperature /= float64(summary.Days)
	summary.MeanHumidity /= float64(summary.Days)
	return summary
}

// FetchWindowSummary fetches conditions between two dates and reduces
// them in one call.
func FetchWindowSummary(ctx context.Context, latitude, longitude float64, startDate, endDate time.Time) (WindowSummary, error) {
	historical, err := FetchWeather(ctx, latitude, longitude, startDate, endDate)
	if err != nil {
		return WindowSummary{}, err
	}
	return Summarize(historical), nil
}
