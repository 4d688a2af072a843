// A terminal walkthrough of the storefront: sign in (or register), ask the
// recommendation function for a book, browse, fill the cart, check out and
// watch the live feed of generated recommendations arrive.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"booknest/internal/books"
	"booknest/internal/cart"
	"booknest/internal/checkout"
	"booknest/internal/config"
	"booknest/internal/currency"
	"booknest/internal/database"
	"booknest/internal/eventpublisher/event"
	"booknest/internal/eventpublisher/storefront"
	"booknest/internal/identity"
	"booknest/internal/localcache"
	"booknest/internal/model"
	cartRepository "booknest/internal/repository/cart"
	feedRepository "booknest/internal/repository/feed"
	profileRepository "booknest/internal/repository/profile"
	statsRepository "booknest/internal/repository/stats"
	"booknest/internal/routing"
	"booknest/internal/session"
	"booknest/internal/utils"

	firebase "firebase.google.com/go/v4"

	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {

	_ = godotenv.Load()

	cnf := config.LoadConfigOrPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := createFirebaseAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.Firebase)
	defer firestoreClient.Close()

	cache, err := localcache.Open(cnf.App.CachePath)
	if err != nil {
		panic(err)
	}
	defer cache.Close()

	profileRepo := profileRepository.New(&firestoreClient)
	statsRepo := statsRepository.New(&firestoreClient)
	cartRepo := cartRepository.New(&firestoreClient)
	feedRepo := feedRepository.New(&firestoreClient)

	ledger := cart.NewLedger(cartRepo, cache)
	identityClient := identity.NewClient(ctx, cnf.Firebase.WebApiKey)
	if identityClient == nil {
		panic(fmt.Errorf("failed to create an identity client"))
	}
	sess := session.New(identityClient, profileRepo, statsRepo, ledger,
		session.AdminCredentials{Email: cnf.Admin.Email, Password: cnf.Admin.Password},
		cnf.App.Id)

	route := routing.Initial
	route = advance(route, sess, true)

	// Sign in, falling back to registration for a fresh account.
	email, password := demoCredentials()
	if err := sess.Login(ctx, email, password); err != nil {
		fmt.Println("login:", err)
		if err := sess.Register(ctx, email, password, "Demo Reader"); err != nil {
			panic(err)
		}
	}
	route = advance(route, sess, true)

	if route == routing.Onboarding {
		if err := sess.UpdateProfile(ctx, session.ProfileUpdate{
			Country: utils.StringToPointer("United Kingdom"),
			Genres:  []string{"Fantasy", "Science Fiction"},
		}); err != nil {
			panic(err)
		}
		route = advance(route, sess, true)
	}

	profile := sess.Snapshot().Profile
	fmt.Printf("signed in as %s (%s), prices in %s\n", profile.Name, profile.Email, profile.CurrencyCode)

	// Live feed of recommendations written by the serverless function.
	publisher := storefront.PublisherFactory(feedRepo, statsRepo).
		OnFeedEntryAdded(cnf.App.Id, sess.Snapshot().Uid)
	feedCh := make(event.EventChannel)
	publisher.Subscribe((chan event.Event)(feedCh))
	go func() {
		if err := publisher.Start(ctx); err != nil {
			fmt.Println("feed subscription closed:", err)
		}
	}()
	go func() {
		for e := range feedCh {
			if e.Err != nil {
				fmt.Println("feed:", e.Err)
				continue
			}
			if entry, ok := e.Message.(model.FeedEntry); ok {
				fmt.Printf("new recommendation: %s by %s\n", entry.AiResponse.BookTitle, entry.AiResponse.Author)
			}
		}
	}()

	// Ask the recommendation function for a book; its reply also lands on the
	// feed subscription above.
	snap := sess.Snapshot()
	if rec, err := requestRecommendation(ctx, cnf.App.FunctionUrl, snap,
		"a quiet fantasy novel for a rainy weekend", cnf.App.Id); err != nil {
		fmt.Println("recommendation:", err)
	} else {
		fmt.Printf("recommended: %s by %s — %s\n", rec.BookTitle, rec.Author, rec.WhyThisBook)
	}

	// Browse and fill the cart.
	booksClient := books.NewBooksClient(ctx, cnf.Books)
	if booksClient == nil {
		panic(fmt.Errorf("failed to create a book search client"))
	}
	found, err := booksClient.Search(ctx, "fantasy novels", 5)
	if err != nil {
		panic(err)
	}
	for _, b := range found {
		fmt.Printf("  %s by %s — %s\n", b.Title, b.Author, currency.Format(b.PriceUSD, profile.Country))
	}

	for _, b := range found[:min(2, len(found))] {
		ledger.Add(ctx, model.CartItem{
			Id:       b.Id,
			Title:    b.Title,
			Author:   b.Author,
			ImageUrl: b.ImageUrl,
			Price:    b.PriceUSD,
			Quantity: 1,
		})
	}
	fmt.Println("cart total:", currency.Format(ledger.Total(), profile.Country))

	// Check out with the demo card.
	receipt, err := checkout.New(ledger, statsRepo, cnf.App.Id).Pay(ctx, checkout.Card{
		Number: "4242424242424242",
		Expiry: "12/30",
		Cvv:    "123",
		Holder: profile.Name,
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("order %s placed, charged %s\n", receipt.OrderId, currency.Format(receipt.TotalUSD, profile.Country))

	sess.Logout()
	route = advance(route, sess, true)

	// Admin glance at the dashboard counters, when credentials are configured.
	if cnf.Admin.Email != "" {
		if err := sess.AdminLogin(cnf.Admin.Email, cnf.Admin.Password); err != nil {
			fmt.Println("admin login:", err)
		} else {
			route = advance(route, sess, true)
			stats, err := statsRepo.Get(ctx, cnf.App.Id)
			if err != nil {
				fmt.Println("dashboard stats:", err)
			} else {
				fmt.Printf("dashboard: %d users, %d orders, %s revenue\n",
					stats.TotalRegisteredUsers, stats.TotalOrders, currency.Format(stats.TotalRevenue, ""))
			}
			watchDashboard(ctx, storefront.PublisherFactory(feedRepo, statsRepo), cnf.App.Id)
			sess.Logout()
		}
	}
	route = advance(route, sess, true)
	fmt.Println("signed out, back at:", route)
}

// advance feeds the session snapshot through the routing rules and prints the
// transition the way the shell would render it.
func advance(current routing.State, sess *session.Service, servicesReady bool) routing.State {
	snap := sess.Snapshot()
	next := routing.Next(current, routing.Snapshot{
		ServicesReady: servicesReady,
		AuthReady:     snap.AuthReady,
		LoggedIn:      snap.LoggedIn,
		Admin:         snap.Admin,
		Onboarded:     snap.Onboarded(),
	})
	if next != current {
		fmt.Printf("route: %s -> %s\n", current, next)
	}
	return next
}

// requestRecommendation calls the deployed recommendation function with the
// session's bearer token and returns the parsed record.
func requestRecommendation(ctx context.Context, url string, snap session.State, prompt, appId string) (*model.ParsedRecommendation, error) {
	body, err := json.Marshal(model.RecommendationRequest{
		Prompt: prompt,
		UserId: snap.Uid,
		AppId:  appId,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if snap.IdToken != "" {
		req.Header.Set("Authorization", "Bearer "+snap.IdToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Success        bool                        `json:"success"`
		Recommendation *model.ParsedRecommendation `json:"recommendation"`
		Message        string                      `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected reply (%d): %s", resp.StatusCode, raw)
	}
	if !parsed.Success || parsed.Recommendation == nil {
		return nil, fmt.Errorf("%s (%d)", parsed.Message, resp.StatusCode)
	}

	return parsed.Recommendation, nil
}

// watchDashboard briefly subscribes to the live dashboard counters the admin
// view renders.
func watchDashboard(ctx context.Context, factory storefront.Factory, appId string) {
	wctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	publisher := factory.OnDashboardStatsChanged(appId)
	ch := make(event.EventChannel)
	publisher.Subscribe((chan event.Event)(ch))
	go func() {
		_ = publisher.Start(wctx)
	}()

	for e := range ch {
		if e.Err != nil {
			fmt.Println("dashboard watch:", e.Err)
			return
		}
		if stats, ok := e.Message.(model.AdminStats); ok {
			fmt.Printf("dashboard update: %d orders on record\n", stats.TotalOrders)
			return
		}
	}
}

func demoCredentials() (string, string) {
	email := os.Getenv("DEMO_EMAIL")
	if email == "" {
		email = "demo@booknest.dev"
	}
	password := os.Getenv("DEMO_PASSWORD")
	if password == "" {
		password = "demo-password-1"
	}
	return email, password
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func createFirebaseAppOrPanic(ctx context.Context, cnf config.Firebase) *firebase.App {
	creds, err := json.Marshal(cnf)
	if err != nil {
		panic(err)
	}

	sa := option.WithCredentialsJSON(creds)
	app, err := firebase.NewApp(ctx, nil, sa)
	if err != nil {
		panic(err)
	}
	return app
}

func createFirestoreClientOrPanic(ctx context.Context, app *firebase.App, cnf config.Firebase) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, cnf.WriteTimeoutSecond)
}
