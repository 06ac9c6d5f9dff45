// Package weather fetches current conditions from OpenWeather. Requests are
// asynchronous: each Fetch supersedes any earlier in-flight request via a
// generation counter, and results are delivered on a channel the caller
// drains from its own loop.
package weather

import (
	"bytes"
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"resty.dev/v3"
)

const (
	openWeatherURL  = "https://api.openweathermap.org/data/2.5/weather"
	iconURLTemplate = "https://openweathermap.org/img/wn/%s@2x.png"

	requestTimeout = 15 * time.Second
)

// Summary is the parsed subset of an OpenWeather response that the overlay
// renders. Numeric fields are pointers so "absent" survives the round trip.
type Summary struct {
	Condition   string
	Temperature *float64
	FeelsLike   *float64
	Humidity    *float64
	City        string
	Icon        string // short icon code or direct image URL
}

// Result is one completed fetch. Icon is non-nil when the summary carried an
// icon reference that resolved to an image.
type Result struct {
	Summary *Summary
	Icon    image.Image
	Err     error
}

// Client fetches weather summaries and their icons.
type Client struct {
	apiKey   string
	location string
	units    string

	http     *resty.Client
	endpoint string
	gen      atomic.Uint64
	results  chan Result
}

// New returns a client for the given OpenWeather credentials. The location is
// either a city name or a "lat,lon" pair.
func New(apiKey, location, units string) *Client {
	units = strings.TrimSpace(units)
	if units == "" {
		units = "metric"
	}

	client := resty.New()
	client.SetTimeout(requestTimeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "photodrift")

	return &Client{
		apiKey:   strings.TrimSpace(apiKey),
		location: strings.TrimSpace(location),
		units:    units,
		http:     client,
		endpoint: openWeatherURL,
		results:  make(chan Result, 4),
	}
}

// Results is the channel completed fetches arrive on. Stale results (those
// superseded by a newer Fetch) are discarded before they reach it.
func (c *Client) Results() <-chan Result {
	return c.results
}

// Fetch starts an asynchronous weather request. Any earlier request still in
// flight is abandoned: its result will fail the generation check and be
// dropped.
func (c *Client) Fetch() {
	if c.apiKey == "" || c.location == "" {
		c.deliver(c.gen.Add(1), Result{Err: fmt.Errorf("weather configuration is incomplete")})
		return
	}

	gen := c.gen.Add(1)
	go func() {
		result := c.fetch()
		c.deliver(gen, result)
	}()
}

// deliver applies the generation gate and pushes the result without blocking.
func (c *Client) deliver(gen uint64, result Result) {
	if c.gen.Load() != gen {
		log.Debug("discarding stale weather result")
		return
	}
	select {
	case c.results <- result:
	default:
		log.Debug("weather result dropped, channel full")
	}
}

func (c *Client) fetch() Result {
	req := c.http.R().
		SetQueryParam("appid", c.apiKey).
		SetQueryParam("units", c.units)

	if lat, lon, ok := parseCoordinates(c.location); ok {
		req.SetQueryParam("lat", strconv.FormatFloat(lat, 'f', 6, 64))
		req.SetQueryParam("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	} else {
		req.SetQueryParam("q", c.location)
	}

	payload := apiResponse{}
	resp, err := req.SetResult(&payload).Get(c.endpoint)
	if err != nil {
		return Result{Err: fmt.Errorf("weather request failed: %w", err)}
	}
	if resp.IsError() {
		return Result{Err: fmt.Errorf("weather request failed: %s", resp.Status())}
	}

	summary := payload.summary()
	result := Result{Summary: summary}
	if summary.Icon != "" {
		icon, err := c.fetchIcon(summary.Icon)
		if err != nil {
			log.Warnf("weather icon fetch failed: %v", err)
		} else {
			result.Icon = icon
		}
	}
	return result
}

// fetchIcon resolves ref, either a direct image URL or a short OpenWeather
// icon code, into a decoded image.
func (c *Client) fetchIcon(ref string) (image.Image, error) {
	url := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		url = fmt.Sprintf(iconURLTemplate, ref)
	}

	resp, err := c.http.R().Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("icon request failed: %s", resp.Status())
	}

	icon, err := imaging.Decode(bytes.NewReader(resp.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("decoding icon: %w", err)
	}
	return icon, nil
}

// SetEndpoint overrides the API endpoint. Used by tests.
func (c *Client) SetEndpoint(url string) {
	c.endpoint = url
}

func parseCoordinates(location string) (lat, lon float64, ok bool) {
	pieces := strings.Split(location, ",")
	if len(pieces) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(pieces[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(pieces[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// apiResponse mirrors the fields of the OpenWeather current-conditions
// payload that the overlay consumes.
type apiResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Name string `json:"name"`
}

func (r *apiResponse) summary() *Summary {
	s := &Summary{
		Temperature: r.Main.Temp,
		FeelsLike:   r.Main.FeelsLike,
		Humidity:    r.Main.Humidity,
		City:        strings.TrimSpace(r.Name),
	}
	if len(r.Weather) > 0 {
		s.Condition = strings.TrimSpace(r.Weather[0].Description)
		s.Icon = strings.TrimSpace(r.Weather[0].Icon)
	}
	return s
}
