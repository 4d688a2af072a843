package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booknest/internal/config"
	"booknest/internal/database"
	recommendationHandler "booknest/internal/handler/recommendation"
	feedRepository "booknest/internal/repository/feed"
	"booknest/internal/server"
	"booknest/internal/utils"

	gpt "booknest/internal/gpt"
	gptutils "booknest/internal/gpt/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {

	_ = godotenv.Load()

	cnf := config.LoadConfigOrPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	app := createFirebaseAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.Firebase.WriteTimeoutSecond)
	defer firestoreClient.Close()

	tokenizer, err := gptutils.NewTokenzier()
	if err != nil {
		panic(err)
	}

	gptFactory, err := gpt.NewClientFactory(gpt.ClientConfig{
		ApiUrl:      cnf.GenAI.ApiUrl,
		ApiKey:      cnf.GenAI.ApiKey,
		Model:       cnf.GenAI.Model,
		Temperature: utils.Float32ToPointer(0.7),
	})
	if err != nil {
		panic(err)
	}

	feedRepo := feedRepository.New(&firestoreClient)

	handler := recommendationHandler.New(
		recommendationHandler.NewCompleter(gptFactory),
		feedRepo,
		&tokenizer,
		cnf.GenAI.PromptTokenBudget)

	if authClient, err := app.Auth(ctx); err == nil {
		handler.WithTokenVerifier(tokenVerifier{authClient}, cnf.Server.AuthRequired)
	} else if cnf.Server.AuthRequired {
		panic(err)
	} else {
		log.Warn().Err(err).Msg("auth client unavailable, serving without token checks")
	}

	srv := &http.Server{
		Addr:    cnf.Server.Addr,
		Handler: server.New(handler),
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Msgf("listening on %s", cnf.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*5)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	select {
	case <-sigs:
		// Received a termination signal, continue to shutdown
	case <-gctx.Done():
		// errgroup encountered an error, continue to shutdown
	}

	cancel() // cancel the root context to signal all the consumers

	select {
	case <-time.After(time.Second * 5):
		// Give enough time to close all the pending resources
	case <-sigs:
		// Forcefully terminate the app with a signal
	}

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("shutdown")
		os.Exit(1)
	}
}

// tokenVerifier adapts the Firebase auth client onto the handler's interface.
type tokenVerifier struct {
	client *auth.Client
}

func (v tokenVerifier) VerifyUid(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
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

func createFirestoreClientOrPanic(ctx context.Context, app *firebase.App, writeTimeout time.Duration) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, writeTimeout)
}
