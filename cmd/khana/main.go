// Command khana is a terminal client for the recipe collection
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/client"
	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/types"
	"github.com/pageza/khana/backend/pkg/logger"
)

const usage = `usage: khana [-url URL] [-key KEY] <command> [args]

commands:
  list [-q text] [-category name]   list recipes, newest first
  show <id>                         print one recipe
  add [recipe flags]                create a recipe
  edit <id> [recipe flags]          update a recipe
  delete <id>                       delete a recipe
  upload <file>                     upload a recipe image and print its URL
  stats                             count recipes per category
  chat                              talk to the recipe assistant
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "khana: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	api  *client.Client
	book *client.RecipeBook
	log  *zap.Logger
	in   io.Reader
	out  io.Writer
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("khana", flag.ContinueOnError)
	fs.SetOutput(out)
	baseURL := fs.String("url", envOr("KHANA_URL", "http://localhost:8080"), "backend base URL")
	apiKey := fs.String("key", os.Getenv("KHANA_API_KEY"), "anon API key")
	verbose := fs.Bool("v", false, "log requests")
	fs.Usage = func() { fmt.Fprint(out, usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	log := logger.Nop()
	if *verbose {
		var err error
		log, err = logger.New(logger.Config{Level: "debug", Format: "console", Development: true})
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
	}

	var opts []client.Option
	if *apiKey != "" {
		opts = append(opts, client.WithAPIKey(*apiKey))
	}
	api := client.New(*baseURL, opts...)
	a := &app{api: api, book: client.NewRecipeBook(api, log), log: log, in: in, out: out}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		return a.list(ctx, rest)
	case "show":
		return a.show(ctx, rest)
	case "add":
		return a.save(ctx, "", rest)
	case "edit":
		if len(rest) == 0 {
			return errors.New("edit requires a recipe id")
		}
		return a.save(ctx, rest[0], rest[1:])
	case "delete":
		return a.delete(ctx, rest)
	case "upload":
		return a.upload(ctx, rest)
	case "stats":
		return a.stats(ctx)
	case "chat":
		return a.chat(ctx)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	query := fs.String("q", "", "search title and description")
	category := fs.String("category", string(model.CategoryAll), "category or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := model.RecipeFilter{Search: *query, Category: model.Category(*category)}
	if filter.Category != model.CategoryAll && !filter.Category.Valid() {
		return fmt.Errorf("unknown category %q", *category)
	}

	if err := a.book.Refresh(ctx); err != nil {
		return err
	}
	recipes := a.book.Visible(filter)
	if len(recipes) == 0 {
		empty := client.EmptyStateFor(filter)
		fmt.Fprintf(a.out, "%s\n%s\n", empty.Title, empty.Hint)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tTIME\tSERVES")
	for _, r := range recipes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d min\t%d\n", r.ID, r.Title, r.Category, r.TotalTime(), r.Servings)
	}
	return w.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("show requires a recipe id")
	}
	r, err := a.api.GetRecipe(ctx, args[0])
	if err != nil {
		return err
	}
	printRecipe(a.out, r)
	return nil
}

func printRecipe(out io.Writer, r *model.Recipe) {
	fmt.Fprintf(out, "%s  [%s]\n", r.Title, r.Category)
	if r.Description != "" {
		fmt.Fprintf(out, "%s\n", r.Description)
	}
	fmt.Fprintf(out, "prep %d min, cook %d min, serves %d\n", r.PrepTime, r.CookTime, r.Servings)
	if lines := r.IngredientLines(); len(lines) > 0 {
		fmt.Fprintln(out, "\nIngredients")
		for _, line := range lines {
			fmt.Fprintf(out, "  - %s\n", line)
		}
	}
	if steps := r.InstructionLines(); len(steps) > 0 {
		fmt.Fprintln(out, "\nInstructions")
		for i, step := range steps {
			fmt.Fprintf(out, "  %d. %s\n", i+1, step)
		}
	}
	if r.ImageURL != "" {
		fmt.Fprintf(out, "\nimage: %s\n", r.ImageURL)
	}
	if r.SourceLink != "" {
		fmt.Fprintf(out, "source: %s\n", r.SourceLink)
	}
}

// recipeFlags binds the editable fields. Ingredient and instruction flags
// repeat, one line each.
type recipeFlags struct {
	fs           *flag.FlagSet
	title        *string
	description  *string
	ingredients  lineList
	instructions lineList
	prep         *int
	cook         *int
	servings     *int
	category     *string
	image        *string
	imageFile    *string
	source       *string
}

type lineList []string

func (l *lineList) String() string     { return strings.Join(*l, "\n") }
func (l *lineList) Set(v string) error { *l = append(*l, v); return nil }

func newRecipeFlags(name string, base types.RecipeInput) *recipeFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	rf := &recipeFlags{fs: fs}
	rf.title = fs.String("title", base.Title, "recipe title")
	rf.description = fs.String("description", base.Description, "short description")
	fs.Var(&rf.ingredients, "ingredient", "ingredient line, repeatable")
	fs.Var(&rf.instructions, "step", "instruction step, repeatable")
	rf.prep = fs.Int("prep", base.PrepTime, "prep time in minutes")
	rf.cook = fs.Int("cook", base.CookTime, "cook time in minutes")
	rf.servings = fs.Int("servings", base.Servings, "servings")
	rf.category = fs.String("category", string(base.Category), "category")
	rf.image = fs.String("image", base.ImageURL, "image URL")
	rf.imageFile = fs.String("image-file", "", "local image to upload")
	rf.source = fs.String("source", base.SourceLink, "source link")
	return rf
}

// input overlays the parsed flags on base. Repeated line flags replace the
// whole field.
func (rf *recipeFlags) input(base types.RecipeInput) types.RecipeInput {
	in := base
	in.Title = *rf.title
	in.Description = *rf.description
	if len(rf.ingredients) > 0 {
		in.Ingredients = rf.ingredients.String()
	}
	if len(rf.instructions) > 0 {
		in.Instructions = rf.instructions.String()
	}
	in.PrepTime = *rf.prep
	in.CookTime = *rf.cook
	in.Servings = *rf.servings
	in.Category = model.Category(*rf.category)
	in.ImageURL = *rf.image
	in.SourceLink = *rf.source
	return in
}

func (a *app) save(ctx context.Context, id string, args []string) error {
	var base types.RecipeInput
	if id != "" {
		existing, err := a.api.GetRecipe(ctx, id)
		if err != nil {
			return err
		}
		base = types.InputFromRecipe(existing)
	}

	rf := newRecipeFlags("recipe", base)
	rf.fs.SetOutput(a.out)
	if err := rf.fs.Parse(args); err != nil {
		return err
	}
	in := rf.input(base)

	if *rf.imageFile != "" {
		url, err := a.pickImage(ctx, *rf.imageFile)
		if err != nil {
			return err
		}
		in.ImageURL = url
	}

	if err := in.Validate(); err != nil {
		return err
	}
	if err := a.book.Save(ctx, id, in); err != nil {
		return err
	}

	verb := "created"
	if id != "" {
		verb = "updated"
	}
	fmt.Fprintf(a.out, "%s %q (%d recipes)\n", verb, in.Title, len(a.book.Recipes()))
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("delete requires a recipe id")
	}
	if err := a.book.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return nil
}

// pickImage uploads a local file through the image picker and waits for the URL
func (a *app) pickImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	picker := client.NewImagePicker(a.api, a.log)
	if err := picker.Select(ctx, filepath.Base(path), client.DetectContentType(data), data); err != nil {
		return "", err
	}
	if err := picker.Wait(); err != nil {
		return "", err
	}
	return picker.ImageURL(), nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("upload requires a file path")
	}
	url, err := a.pickImage(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, url)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	stats, err := a.api.Stats(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, c := range model.Categories {
		fmt.Fprintf(w, "%s\t%d\n", c, stats.ByCategory[c])
	}
	fmt.Fprintf(w, "total\t%d\n", stats.Total)
	fmt.Fprintf(w, "this week\t%d\n", stats.ThisWeek)
	return w.Flush()
}

func (a *app) chat(ctx context.Context) error {
	if err := a.book.Refresh(ctx); err != nil {
		a.log.Warn("chatting without recipe context", zap.Error(err))
	}
	session := client.NewChatSession(a.api, a.book.Recipes, a.log)
	fmt.Fprintf(a.out, "assistant: %s\n", client.Greeting)

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "you: ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "/quit" {
			return nil
		}

		reply, err := session.Send(ctx, line)
		if errors.Is(err, client.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "assistant: %s\n", reply)
	}
}
