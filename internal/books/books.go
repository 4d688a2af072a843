package books

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"booknest/internal/config"
	"booknest/internal/model"
	"booknest/internal/utils"

	"github.com/rs/zerolog/log"
	books "google.golang.org/api/books/v1"
	"google.golang.org/api/option"
)

var ErrNoResponse error = fmt.Errorf("book search API returned no response")

const (
	defaultTitle       = "No Title Available"
	defaultAuthor      = "Unknown Author"
	defaultGenre       = "General"
	defaultCover       = "https://placehold.co/150x200/cccccc/333333?text=No+Cover"
	defaultDescription = "No description available."
)

type BookSearchAPI interface {
	Search(ctx context.Context, term string, maxResult int64) ([]model.Book, error)
	GetById(ctx context.Context, id string) (*model.Book, error)
}

type BooksClient struct {
	Service *books.Service
}

var (
	once     sync.Once
	instance *BooksClient
)

func NewBooksClient(ctx context.Context, cnf config.Books) *BooksClient {
	once.Do(func() {
		opts := []option.ClientOption{option.WithoutAuthentication()}
		if cnf.ApiKey != "" {
			opts = []option.ClientOption{option.WithAPIKey(cnf.ApiKey)}
		}
		service, err := books.NewService(ctx, opts...)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create book search service")
			return
		}
		instance = &BooksClient{Service: service}
	})
	return instance
}

func (c *BooksClient) Search(ctx context.Context, term string, maxResult int64) ([]model.Book, error) {
	if term == "" {
		return []model.Book{}, nil
	}

	log.Debug().Msgf("Search catalog for %s", term)
	call := c.Service.Volumes.List(term).MaxResults(maxResult).Context(ctx)

	var response *books.Volumes
	var err error

	retryHandler := utils.NewRetryHandler(time.Second*10, time.Second*3, 3)
	retryHandler.Do(func() error {
		response, err = call.Do()
		if err != nil {
			return err
		}
		if len(response.Items) == 0 {
			err = ErrNoResponse
		}
		return err
	})

	if err != nil {
		return nil, err
	}

	result := make([]model.Book, 0, len(response.Items))
	for _, item := range response.Items {
		result = append(result, normalize(item))
	}

	return result, nil
}

func (c *BooksClient) GetById(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, nil
	}

	volume, err := c.Service.Volumes.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get volume: %w, id: %s", err, id)
	}

	book := normalize(volume)
	return &book, nil
}

// normalize maps a raw volume onto the catalog model. The source has no real
// pricing, so price and rating are synthesized deterministically from the
// volume id: the same book keeps the same price across fetches.
func normalize(item *books.Volume) model.Book {
	book := model.Book{
		Id:          item.Id,
		Title:       defaultTitle,
		Author:      defaultAuthor,
		Genre:       defaultGenre,
		ImageUrl:    defaultCover,
		Description: defaultDescription,
		PriceUSD:    derivePrice(item.Id),
		Rating:      deriveRating(item.Id),
	}

	info := item.VolumeInfo
	if info == nil {
		return book
	}

	if info.Title != "" {
		book.Title = info.Title
	}
	if len(info.Authors) > 0 {
		book.Author = strings.Join(info.Authors, ", ")
	}
	if len(info.Categories) > 0 {
		book.Genre = info.Categories[0]
	}
	if info.ImageLinks != nil && info.ImageLinks.Thumbnail != "" {
		book.ImageUrl = info.ImageLinks.Thumbnail
	}
	if info.Description != "" {
		book.Description = info.Description
	}

	return book
}

// derivePrice yields a stable placeholder price between 8.00 and 30.00 USD.
func derivePrice(id string) float64 {
	return round2(8 + utils.HashFraction("price:"+id)*22)
}

// deriveRating yields a stable placeholder rating between 3.0 and 5.0.
func deriveRating(id string) float64 {
	return math.Round((3+utils.HashFraction("rating:"+id)*2)*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
