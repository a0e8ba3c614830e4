package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
)

const googleProvider = "google"

func main() {
	// .env is optional, for local development.
	_ = godotenv.Load()

	flag.Usage = usage
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	args := flag.Args()
	cmd := ServeCommand.Name
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case ServeCommand.Name:
		err = ServeCommand.Run(ctx, args)
	case ConfigureCommand.Name:
		err = ConfigureCommand.Run(ctx, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintf(w, "  %-12s %s\n", ServeCommand.Name, ServeCommand.Description)
	fmt.Fprintf(w, "  %-12s %s\n", ConfigureCommand.Name, ConfigureCommand.Description)
}
