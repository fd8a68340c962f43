// Command gointl manages langpacks in an object store and resolves text from them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ZaguanLabs/gointl"
	"github.com/ZaguanLabs/gointl/extract"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = gointl.Version
	commit    = gointl.GitCommit
	buildDate = gointl.BuildDate
)

// stdin is read by save when no file is given.
var stdin io.Reader = os.Stdin

const usage = `usage: gointl [flags] <command> [args]

commands:
  text <namespace> <key> [name=value ...]   resolve a text
  get <namespace> <language>                print a langpack
  save <namespace> <language> [file]        overwrite a langpack from file or stdin
  list                                      list langpack keys
  flush                                     clear the cache
  download-url <namespace> <language>       print the download URL
  upload-url <namespace> <language>         print a presigned upload URL
  status <namespace>                        translation coverage per language
  fill <namespace> [language]               machine-translate missing keys
  preload <namespace> ...                   warm the cache
  scan <dir>                                find keys used in Go code but missing from the fallback
  version                                   print version
`

// options are the flags that are not part of Config.
type options struct {
	memory       bool
	seed         string
	lang         string
	accept       string
	addMissing   bool
	forceOrigin  bool
	jsonOut      bool
	verbose      bool
	providerName string
	context      string
	style        string
	exclude      string
	prune        bool
	concurrency  int
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("gointl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nflags:")
		fs.PrintDefaults()
	}

	var opts options
	languages := strings.Join(cfg.Languages, ",")

	// Backend flags, defaulting to the environment
	fs.StringVar(&cfg.Bucket, "bucket", cfg.Bucket, "S3 bucket (GOINTL_BUCKET)")
	fs.StringVar(&cfg.Region, "region", cfg.Region, "S3 region (GOINTL_REGION)")
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "S3-compatible endpoint (GOINTL_ENDPOINT)")
	fs.StringVar(&cfg.BasePrefix, "base-prefix", cfg.BasePrefix, "Prefix of every langpack key (GOINTL_BASE_PREFIX)")
	fs.StringVar(&cfg.MirrorURL, "mirror", cfg.MirrorURL, "HTTP mirror base URL (GOINTL_MIRROR_URL)")
	fs.StringVar(&cfg.Cache, "cache", cfg.Cache, "Cache: none, memory, lru or redis (GOINTL_CACHE)")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Cache TTL, 0 for no expiry (GOINTL_CACHE_TTL)")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (GOINTL_REDIS_URL)")
	fs.StringVar(&languages, "languages", languages, "Comma-separated supported languages (GOINTL_LANGUAGES)")
	fs.StringVar(&cfg.Fallback, "fallback", cfg.Fallback, "Fallback language, default first of --languages (GOINTL_FALLBACK)")
	fs.BoolVar(&cfg.ShowKeys, "show-keys", cfg.ShowKeys, "Render unresolved keys as namespace.key (GOINTL_SHOW_KEYS)")
	fs.IntVar(&cfg.Retries, "retries", cfg.Retries, "Object store retries on transient failures (GOINTL_RETRIES)")
	fs.StringVar(&cfg.OpenAIKey, "api-key", cfg.OpenAIKey, "OpenAI API key (OPENAI_API_KEY)")
	fs.StringVar(&cfg.OpenAIModel, "model", cfg.OpenAIModel, "OpenAI model (GOINTL_OPENAI_MODEL)")

	fs.BoolVar(&opts.memory, "memory", false, "Use an in-memory object store instead of S3")
	fs.StringVar(&opts.seed, "seed", "", "JSON file of langpacks to load into the memory store")
	fs.StringVar(&opts.lang, "lang", "", "Language for text (default: fallback)")
	fs.StringVar(&opts.accept, "accept-language", "", "Pick the language for text from an Accept-Language header")
	fs.BoolVar(&opts.addMissing, "add-missing", false, "Register missing keys with an empty value (text, scan)")
	fs.BoolVar(&opts.forceOrigin, "force-origin", false, "Bypass cache and mirror")
	fs.BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	fs.BoolVar(&opts.verbose, "verbose", false, "Debug logging")
	fs.StringVar(&opts.providerName, "provider", "openai", "Translation provider for fill: openai or mock")
	fs.StringVar(&opts.context, "context", "", "Translation context for fill (e.g., 'bike shop checkout')")
	fs.StringVar(&opts.style, "style", string(gointl.StyleNeutral), "Translation style for fill")
	fs.StringVar(&opts.exclude, "exclude", "", "Comma-separated terms fill must not translate")
	fs.BoolVar(&opts.prune, "prune", false, "Remove keys the fallback langpack no longer has during fill")
	fs.IntVar(&opts.concurrency, "concurrency", gointl.DefaultPreloadConcurrency, "Parallel reads for preload")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Languages = splitList(languages)
	for i, lang := range cfg.Languages {
		cfg.Languages[i] = gointl.NormalizeLocale(lang)
	}
	cfg.Fallback = gointl.NormalizeLocale(cfg.Fallback)

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("command required")
	}

	command, rest := fs.Arg(0), fs.Args()[1:]
	if command == "version" {
		return runVersion(stdout)
	}

	handler, ok := commands[command]
	if !ok {
		return fmt.Errorf("unknown command %q", command)
	}

	logger := newLogger(cfg.Env, opts.verbose, stderr)
	defer logger.Sync()

	ctx := context.Background()
	b, err := openBackend(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	return handler(ctx, &cli{cfg: cfg, opts: opts, backend: b, stdout: stdout, stderr: stderr}, rest)
}

// cli is what a command handler works with.
type cli struct {
	cfg    Config
	opts   options
	stdout io.Writer
	stderr io.Writer
	*backend
}

type handlerFunc func(ctx context.Context, c *cli, args []string) error

var commands = map[string]handlerFunc{
	"text":         runText,
	"get":          runGet,
	"save":         runSave,
	"list":         runList,
	"flush":        runFlush,
	"download-url": runDownloadURL,
	"upload-url":   runUploadURL,
	"status":       runStatus,
	"fill":         runFill,
	"preload":      runPreload,
	"scan":         runScan,
}

func runVersion(stdout io.Writer) error {
	fmt.Fprintf(stdout, "%s %s\n", gointl.Name, version)
	if commit != "unknown" && commit != "" {
		fmt.Fprintf(stdout, "  commit:  %s\n", commit)
	}
	if buildDate != "unknown" && buildDate != "" {
		fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
	}
	return nil
}

func runText(ctx context.Context, c *cli, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: text <namespace> <key> [name=value ...]")
	}

	values := make(map[string]string)
	for _, pair := range args[2:] {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid value %q, want name=value", pair)
		}
		values[name] = value
	}

	lang := c.opts.lang
	if lang == "" && c.opts.accept != "" {
		lang = c.resolver.Negotiate(c.opts.accept)
	}

	text, err := c.resolver.Localizer(lang).GetText(ctx, args[0], args[1], values, c.opts.addMissing)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.stdout, text)
	return nil
}

func runGet(ctx context.Context, c *cli, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: get <namespace> <language>")
	}

	pack, err := c.store.Get(ctx, gointl.LangpackKey(args[0], args[1]), c.opts.forceOrigin)
	if err != nil {
		return err
	}

	return writeJSON(c.stdout, pack)
}

func runSave(ctx context.Context, c *cli, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: save <namespace> <language> [file]")
	}

	var data []byte
	var err error
	if len(args) == 3 && args[2] != "-" {
		data, err = os.ReadFile(args[2]) // #nosec G304 - CLI tool reads user-specified files
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("reading langpack: %w", err)
	}

	var pack gointl.Langpack
	if err := json.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("parsing langpack: %w", err)
	}

	if err := c.resolver.SaveLangpack(ctx, args[0], args[1], pack); err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "saved %s (%d keys)\n", gointl.LangpackKey(args[0], args[1]), len(pack))
	return nil
}

func runList(ctx context.Context, c *cli, args []string) error {
	keys, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	if c.opts.jsonOut {
		return writeJSON(c.stdout, keys)
	}

	for _, key := range keys {
		fmt.Fprintln(c.stdout, key)
	}
	return nil
}

func runFlush(ctx context.Context, c *cli, args []string) error {
	if !c.store.Flush(ctx) {
		return errors.New("cache flush failed")
	}
	fmt.Fprintln(c.stdout, "cache flushed")
	return nil
}

func runDownloadURL(ctx context.Context, c *cli, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: download-url <namespace> <language>")
	}

	url, err := c.store.DownloadURL(ctx, gointl.LangpackKey(args[0], args[1]), c.opts.forceOrigin)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.stdout, url)
	return nil
}

func runUploadURL(ctx context.Context, c *cli, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: upload-url <namespace> <language>")
	}

	url, err := c.store.UploadURL(ctx, gointl.LangpackKey(args[0], args[1]))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.stdout, url)
	return nil
}

// languageStatus is one row of status output.
type languageStatus struct {
	Language     string  `json:"language"`
	Translated   int     `json:"translated"`
	Missing      int     `json:"missing"`
	Untranslated int     `json:"untranslated"`
	Orphaned     int     `json:"orphaned"`
	Coverage     float64 `json:"coverage"`
}

func runStatus(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: status <namespace>")
	}
	namespace := args[0]
	fallback := c.resolver.Fallback()

	source, err := c.resolver.GetLangpack(ctx, namespace, fallback, true)
	if err != nil {
		return fmt.Errorf("reading %s: %w", gointl.LangpackKey(namespace, fallback), err)
	}

	var rows []languageStatus
	for _, lang := range c.resolver.Languages() {
		if c.resolver.IsFallback(lang) {
			continue
		}

		target, err := c.resolver.GetLangpack(ctx, namespace, lang, true)
		if gointl.IsNotFound(err) {
			target = gointl.Langpack{}
		} else if err != nil {
			return fmt.Errorf("reading %s: %w", gointl.LangpackKey(namespace, lang), err)
		}

		diff := gointl.DiffLangpacks(source, target)
		stats := diff.Stats()
		rows = append(rows, languageStatus{
			Language:     lang,
			Translated:   stats.Translated,
			Missing:      stats.Missing,
			Untranslated: stats.Untranslated,
			Orphaned:     stats.Orphaned,
			Coverage:     diff.Coverage(),
		})
	}

	if c.opts.jsonOut {
		return writeJSON(c.stdout, map[string]any{
			"namespace": namespace,
			"fallback":  fallback,
			"keys":      len(source),
			"languages": rows,
		})
	}

	fmt.Fprintf(c.stdout, "Namespace: %s (%d keys, fallback %s)\n\n", namespace, len(source), fallback)
	fmt.Fprintf(c.stdout, "%-8s %10s %8s %12s %8s %8s\n", "LANG", "TRANSLATED", "MISSING", "UNTRANSLATED", "ORPHANED", "COVERAGE")
	for _, r := range rows {
		fmt.Fprintf(c.stdout, "%-8s %10d %8d %12d %8d %7.0f%%\n",
			r.Language, r.Translated, r.Missing, r.Untranslated, r.Orphaned, r.Coverage*100)
	}
	return nil
}

func runFill(ctx context.Context, c *cli, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: fill <namespace> [language]")
	}

	p, err := newProvider(c.cfg, c.opts.providerName)
	if err != nil {
		return err
	}

	fillerOpts := []gointl.FillerOption{
		gointl.WithStyle(gointl.TranslationStyle(c.opts.style)),
		gointl.WithPruneOrphans(c.opts.prune),
		gointl.WithFillerLogger(c.logger),
	}
	if c.opts.context != "" {
		fillerOpts = append(fillerOpts, gointl.WithTranslationContext(c.opts.context))
	}
	if c.opts.exclude != "" {
		fillerOpts = append(fillerOpts, gointl.WithExcludedTerms(splitList(c.opts.exclude)))
	}

	filler := gointl.NewFiller(c.resolver, p, fillerOpts...)

	var results []*gointl.FillResult
	if len(args) == 2 {
		result, err := filler.Fill(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		results = append(results, result)
	} else {
		results, err = filler.FillAll(ctx, args[0])
		if err != nil {
			return err
		}
	}

	if c.opts.jsonOut {
		return writeJSON(c.stdout, results)
	}

	for _, r := range results {
		fmt.Fprintf(c.stdout, "%s: %d translated, %d registered, %d skipped, %d pruned\n",
			r.Language, len(r.Translated), len(r.Registered), len(r.Skipped), len(r.Pruned))
		for _, key := range r.Skipped {
			fmt.Fprintf(c.stdout, "  ! %s: placeholders changed, left for review\n", key)
		}
	}
	return nil
}

func runPreload(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: preload <namespace> ...")
	}

	result, err := c.resolver.Preload(ctx, args, c.opts.concurrency)
	if err != nil {
		return err
	}

	if c.opts.jsonOut {
		return writeJSON(c.stdout, result)
	}

	fmt.Fprintf(c.stdout, "loaded %d langpacks, %d missing\n", len(result.Loaded), len(result.Missing))
	for _, key := range result.Missing {
		fmt.Fprintf(c.stdout, "  - %s\n", key)
	}
	return nil
}

// scanResult is the scan outcome for one namespace.
type scanResult struct {
	Namespace string   `json:"namespace"`
	Used      int      `json:"used"`
	Missing   []string `json:"missing"`
	Saved     bool     `json:"saved"`
}

func runScan(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: scan <dir>")
	}

	keys, err := extract.New().Dir(args[0])
	if err != nil {
		return err
	}

	fallback := c.resolver.Fallback()
	groups := extract.ByNamespace(keys)
	namespaces := make([]string, 0, len(groups))
	for ns := range groups {
		namespaces = append(namespaces, ns)
	}
	slices.Sort(namespaces)

	results := make([]scanResult, 0, len(namespaces))
	for _, ns := range namespaces {
		pack, err := c.resolver.GetLangpack(ctx, ns, fallback, true)
		if gointl.IsNotFound(err) {
			pack = gointl.Langpack{}
		} else if err != nil {
			return fmt.Errorf("reading %s: %w", gointl.LangpackKey(ns, fallback), err)
		}

		result := scanResult{Namespace: ns, Used: len(groups[ns]), Missing: []string{}}
		for _, k := range groups[ns] {
			if _, ok := pack[k.Key]; !ok {
				result.Missing = append(result.Missing, k.Key)
			}
		}

		if c.opts.addMissing && len(result.Missing) > 0 {
			for _, key := range result.Missing {
				pack[key] = ""
			}
			if err := c.resolver.SaveLangpack(ctx, ns, fallback, pack); err != nil {
				return err
			}
			result.Saved = true
		}

		results = append(results, result)
	}

	if c.opts.jsonOut {
		return writeJSON(c.stdout, results)
	}

	for _, r := range results {
		fmt.Fprintf(c.stdout, "%s: %d used, %d missing\n", r.Namespace, r.Used, len(r.Missing))
		for _, key := range r.Missing {
			fmt.Fprintf(c.stdout, "  + %s\n", key)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
