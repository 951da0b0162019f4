package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"resty.dev/v3"
)

// Client talks to a running daemon over its control socket.
type Client struct {
	rc *resty.Client
}

func NewClient(sockPath string) *Client {
	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", sockPath)
			},
		},
	})

	client.SetBaseURL("http://smoothtft")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "smoothtft")

	return &Client{rc: client}
}

func (c *Client) Close() error {
	return c.rc.Close()
}

func (c *Client) post(path string, body any) (*Response, error) {
	result := Response{}
	req := c.rc.R().SetResult(&result).SetError(&result)
	if body != nil {
		req.SetBody(body)
	}

	response, err := req.Post(path)
	if err != nil {
		return nil, err
	}
	if response.StatusCode() != http.StatusOK {
		if result.Message != "" {
			return nil, fmt.Errorf("%s: %s", response.Status(), result.Message)
		}
		return nil, fmt.Errorf("error sending command: %s", response.Status())
	}
	return &result, nil
}

func (c *Client) SendCommand(cmd Command) (*Response, error) {
	return c.post("/command", cmd)
}

func (c *Client) Status() (*StatusResponse, error) {
	result := StatusResponse{}
	response, err := c.rc.R().SetResult(&result).Get("/status")
	if err != nil {
		return nil, err
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error getting status: %s", response.Status())
	}
	return &result, nil
}

func (c *Client) Stop() error {
	_, err := c.post("/stop", nil)
	return err
}

func (c *Client) StartWidget(name string) error {
	_, err := c.post("/widgets/"+name+"/start", nil)
	return err
}

func (c *Client) StopWidget(name string) error {
	_, err := c.post("/widgets/"+name+"/stop", nil)
	return err
}

func (c *Client) SetText(name, text string) error {
	_, err := c.post("/widgets/"+name+"/text", map[string]string{"text": text})
	return err
}

func (c *Client) SetColor(name, fg, bg string) error {
	_, err := c.post("/widgets/"+name+"/color", colorRequest{Color: fg, Background: bg})
	return err
}

func (c *Client) SetValue(name string, v float64) error {
	_, err := c.post("/widgets/"+name+"/value", map[string]any{"value": v})
	return err
}

// SendCommand sends cmd to the daemon on the default socket.
func SendCommand(cmd Command) (*Response, error) {
	c := NewClient(SocketPath())
	defer c.Close()
	return c.SendCommand(cmd)
}

// SendStatus asks the daemon on the default socket for its status.
func SendStatus() (*StatusResponse, error) {
	c := NewClient(SocketPath())
	defer c.Close()
	return c.Status()
}

func SendStop() error {
	c := NewClient(SocketPath())
	defer c.Close()
	return c.Stop()
}

// FormatValue renders a progress value for a command argument.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
