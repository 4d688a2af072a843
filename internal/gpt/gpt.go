package gpt

import (
	"context"
	"sync"

	gpt "github.com/m-ariany/gpt-chat-client"
)

var (
	client *gpt.Client
	once   sync.Once
)

type ClientFactory interface {
	Client() (Client, error)
	ClientWithConfig(ClientConfig) (Client, error)
}

type factory struct {
}

func NewClientFactory(cnf ClientConfig) (ClientFactory, error) {
	var err error
	once.Do(func() {
		client, err = gpt.NewClient(cnf)
	})
	return &factory{}, err
}

func (g factory) Client() (Client, error) {
	return Client{Client: client.Clone()}, nil
}

func (g factory) ClientWithConfig(cnf ClientConfig) (Client, error) {
	return Client{Client: client.CloneWithConfig(cnf)}, nil
}

type Client struct {
	*gpt.Client
}

// Complete runs a single-turn, non-streaming completion with the given
// instruction and no user turn.
func (c Client) Complete(ctx context.Context, instruction string) (string, error) {
	c.Instruct(instruction)
	return c.Prompt(ctx, "")
}

type ClientConfig = gpt.ClientConfig
