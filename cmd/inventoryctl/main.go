// Command inventoryctl is an interactive client for the inventory API.
// Reads go through an in-memory cache that every mutation invalidates.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/r4diorusak/InventoryHub/internal/client"
	"github.com/r4diorusak/InventoryHub/internal/config"
	"github.com/r4diorusak/InventoryHub/internal/models"
	"github.com/r4diorusak/InventoryHub/pkg/rabbitmq"
)

const usage = `commands:
  list                                   list active products
  low-stock                              list products at or below reorder level
  get <id>                               show one product
  create <name> <price> <stock> <reorder> [category]
  stock <id> <quantity>                  set stock quantity
  delete <id>                            soft-delete a product
  clear                                  empty the local cache
  watch                                  print inventory events (needs RABBITMQ_URL)
  quit`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	api := client.NewCachedClient(client.NewHTTPClient(cfg.APIBaseURL, cfg.ClientTimeout), cfg.CacheTTL, nil)
	shell := &shell{api: api, cfg: cfg, out: os.Stdout}

	if len(os.Args) > 1 {
		shell.exec(context.Background(), os.Args[1:])
		return
	}

	fmt.Fprintf(os.Stdout, "inventoryctl connected to %s\n%s\n", cfg.APIBaseURL, usage)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		shell.exec(context.Background(), args)
	}
}

type shell struct {
	api *client.CachedClient
	cfg *config.Config
	out io.Writer
}

func (s *shell) exec(ctx context.Context, args []string) {
	switch args[0] {
	case "list":
		s.print(s.api.ListProducts(ctx))
	case "low-stock":
		s.print(s.api.ListLowStock(ctx))
	case "get":
		if id, ok := s.id(args); ok {
			s.print(s.api.GetProduct(ctx, id))
		}
	case "create":
		req, err := parseCreate(args[1:])
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		s.print(s.api.CreateProduct(ctx, req))
	case "stock":
		id, ok := s.id(args)
		if !ok {
			return
		}
		if len(args) < 3 {
			fmt.Fprintln(s.out, "usage: stock <id> <quantity>")
			return
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(s.out, "invalid quantity %q\n", args[2])
			return
		}
		s.print(s.api.UpdateProduct(ctx, id, models.UpdateProductRequest{StockQuantity: &qty}))
	case "delete":
		if id, ok := s.id(args); ok {
			s.print(s.api.DeleteProduct(ctx, id))
		}
	case "clear":
		s.api.Clear()
		fmt.Fprintln(s.out, "cache cleared")
	case "watch":
		s.watch()
	default:
		fmt.Fprintln(s.out, usage)
	}
}

func (s *shell) id(args []string) (int, bool) {
	if len(args) < 2 {
		fmt.Fprintf(s.out, "usage: %s <id>\n", args[0])
		return 0, false
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "invalid id %q\n", args[1])
		return 0, false
	}
	return id, true
}

func (s *shell) print(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(s.out, "failed to render response: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, string(raw))
}

// watch blocks, printing events until the process is interrupted.
func (s *shell) watch() {
	if s.cfg.RabbitMQURL == "" {
		fmt.Fprintln(s.out, "RABBITMQ_URL is not set")
		return
	}
	mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: s.cfg.RabbitMQURL, Queue: s.cfg.EventsQueue})
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	defer mq.Close()

	err = mq.ConsumeProductEvents(func(event models.ProductEvent) error {
		s.print(event)
		return nil
	})
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func parseCreate(args []string) (models.CreateProductRequest, error) {
	if len(args) < 4 {
		return models.CreateProductRequest{}, fmt.Errorf("usage: create <name> <price> <stock> <reorder> [category]")
	}
	price, err := decimal.NewFromString(args[1])
	if err != nil {
		return models.CreateProductRequest{}, fmt.Errorf("invalid price %q", args[1])
	}
	stock, err := strconv.Atoi(args[2])
	if err != nil {
		return models.CreateProductRequest{}, fmt.Errorf("invalid stock %q", args[2])
	}
	reorder, err := strconv.Atoi(args[3])
	if err != nil {
		return models.CreateProductRequest{}, fmt.Errorf("invalid reorder level %q", args[3])
	}
	req := models.CreateProductRequest{
		Name:          args[0],
		Price:         price,
		StockQuantity: stock,
		ReorderLevel:  reorder,
	}
	if len(args) > 4 {
		req.Category = strings.Join(args[4:], " ")
	}
	return req, nil
}
