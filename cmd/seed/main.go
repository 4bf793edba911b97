// Command seed loads a random social graph into a microblog database.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/iudanet/microblog/internal/server/config"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/internal/server/seed"
	"github.com/iudanet/microblog/internal/server/storage/sqlite"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts := seed.DefaultOptions
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	dbPath := fs.String("d", "microblog.db", "SQLite database path")
	rngSeed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	logLevel := fs.String("log-level", "info", "log level")
	fs.IntVar(&opts.Users, "users", opts.Users, "number of users")
	fs.IntVar(&opts.MaxPosts, "max-posts", opts.MaxPosts, "max posts per user")
	fs.IntVar(&opts.MaxFollows, "max-follows", opts.MaxFollows, "max follows per user")
	fs.IntVar(&opts.MaxLikes, "max-likes", opts.MaxLikes, "max likes per user")
	fs.IntVar(&opts.MaxShares, "max-shares", opts.MaxShares, "max shares per user")
	fs.IntVar(&opts.MaxReplies, "max-replies", opts.MaxReplies, "max replies per user")
	fs.StringVar(&opts.Password, "password", opts.Password, "password of every user")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := config.NewLogger(config.LogConfig{Level: *logLevel, Format: "text"}, os.Stderr)

	store, err := sqlite.New(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rng := rand.New(rand.NewPCG(*rngSeed, *rngSeed>>1))
	stats, err := seed.NewLoader(graph.New(store, logger), rng, logger, opts).Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("users: %d\nposts: %d\nreplies: %d\nfollows: %d\nlikes: %d\nshares: %d\n",
		stats.Users, stats.Posts, stats.Replies, stats.Follows, stats.Likes, stats.Shares)
	return nil
}
