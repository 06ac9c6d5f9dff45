package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"resty.dev/v3"
)

func newClient() *resty.Client {
	path := SocketPath()

	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", path)
			},
		},
	})

	client.SetBaseURL("http://photodrift")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "photodrift")

	return client
}

// SendCommand posts a control command to the running instance over the
// unix socket.
func SendCommand(name string) (*Response, error) {
	client := newClient()

	result := Response{}

	response, err := client.R().SetResult(&result).Post("/" + name)
	if err != nil {
		return nil, err
	}

	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error sending %s command: %s", name, response.Status())
	}

	return &result, nil
}

// SendStatus fetches the status of the running instance.
func SendStatus() (*StatusResponse, error) {
	client := newClient()

	result := StatusResponse{}

	response, err := client.R().SetResult(&result).Get("/status")
	if err != nil {
		return nil, err
	}

	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error fetching status: %s", response.Status())
	}

	return &result, nil
}

func SendStop() (*Response, error)   { return SendCommand("stop") }
func SendNext() (*Response, error)   { return SendCommand("next") }
func SendPrev() (*Response, error)   { return SendCommand("prev") }
func SendPause() (*Response, error)  { return SendCommand("pause") }
func SendResume() (*Response, error) { return SendCommand("resume") }
