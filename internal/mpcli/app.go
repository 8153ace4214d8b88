// Package mpcli contains the command line application behind cmd/mproof.
//
// It is kept separate from the main package
// so that tests can drive the commands with their own output writers and logger.
package mpcli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gordian-engine/multiproof"
	"github.com/gordian-engine/multiproof/mpbundle"
	"github.com/gordian-engine/multiproof/mphash"
	"github.com/gordian-engine/multiproof/mphash/mpblake3"
	"github.com/gordian-engine/multiproof/mphash/mpsha256"
	"github.com/urfave/cli/v2"
)

// ErrInvalidProof is returned by the verify command
// when the bundle does not reconstruct the given root.
var ErrInvalidProof = errors.New("invalid proof")

// Config is the configuration for [Run].
type Config struct {
	// Where command output and diagnostics are written.
	// Nil values default to os.Stdout and os.Stderr.
	Stdout, Stderr io.Writer

	// If set, used instead of a text logger on Stderr,
	// and the --log-level flag is ignored.
	Logger *slog.Logger
}

// Run runs the application with the given arguments,
// where args[0] is the program name.
func Run(ctx context.Context, args []string, cfg Config) error {
	return newApp(cfg).RunContext(ctx, args)
}

type app struct {
	stdout, stderr io.Writer

	log *slog.Logger
}

func newApp(cfg Config) *cli.App {
	a := &app{
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
		log:    cfg.Logger,
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}

	hashFlag := &cli.StringFlag{
		Name:  "hash",
		Usage: "hash function for leaves and nodes: sha256 or blake3",
		Value: "sha256",
	}
	hexFlag := &cli.BoolFlag{
		Name:  "hex",
		Usage: "arguments are already-hashed leaves in hex, instead of raw leaf data",
	}

	return &cli.App{
		Name:  "mproof",
		Usage: "build Merkle roots and multiproofs over uneven leaf counts",

		Writer:    a.stdout,
		ErrWriter: a.stderr,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "minimum log level: debug, info, warn, or error",
				Value: "info",
			},
		},
		Before: a.setupLogger,

		Commands: []*cli.Command{
			{
				Name:      "root",
				Usage:     "print the Merkle root of the given leaves",
				ArgsUsage: "LEAF...",
				Flags:     []cli.Flag{hashFlag, hexFlag},
				Action:    a.rootCommand,
			},
			{
				Name:      "prove",
				Usage:     "print a multiproof for the leaves at the given indices",
				ArgsUsage: "LEAF...",
				Flags: []cli.Flag{
					hashFlag, hexFlag,
					&cli.IntSliceFlag{
						Name:     "index",
						Usage:    "leaf index to prove; may be repeated",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "also write a proof bundle to this file",
					},
				},
				Action: a.proveCommand,
			},
			{
				Name:  "verify",
				Usage: "verify a proof bundle against a root",
				Flags: []cli.Flag{
					hashFlag,
					&cli.StringFlag{
						Name:     "root",
						Usage:    "expected root, in hex",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "bundle",
						Usage:    "path to a bundle written by prove --out",
						Required: true,
					},
				},
				Action: a.verifyCommand,
			},
		},
	}
}

func (a *app) setupLogger(c *cli.Context) error {
	if a.log != nil {
		return nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.String("log-level"), err)
	}

	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
	return nil
}

func (a *app) rootCommand(c *cli.Context) error {
	h, err := hasherByName(c.String("hash"))
	if err != nil {
		return err
	}

	tree, err := a.buildTree(c, h)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.stdout, hex.EncodeToString(tree.Root()))
	return err
}

func (a *app) proveCommand(c *cli.Context) error {
	h, err := hasherByName(c.String("hash"))
	if err != nil {
		return err
	}

	tree, err := a.buildTree(c, h)
	if err != nil {
		return err
	}

	b, err := mpbundle.New(tree, c.IntSlice("index"))
	if err != nil {
		return fmt.Errorf("failed to build proof: %w", err)
	}

	a.log.Debug(
		"Built proof",
		"n_leaves", tree.LeafCount(),
		"n_indices", len(b.Indices),
		"n_proof_hashes", b.Proof.Len(),
	)

	var sb strings.Builder
	fmt.Fprintf(&sb, "root %x\n", tree.Root())
	fmt.Fprintf(&sb, "depth %d\n", tree.Depth())
	for _, ph := range b.Proof.Hashes() {
		fmt.Fprintf(&sb, "%x\n", ph)
	}
	if _, err := io.WriteString(a.stdout, sb.String()); err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		enc, err := b.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to encode bundle: %w", err)
		}
		if err := os.WriteFile(out, enc, 0o644); err != nil {
			return fmt.Errorf("failed to write bundle: %w", err)
		}
		a.log.Info("Wrote proof bundle", "path", out, "size", len(enc))
	}

	return nil
}

func (a *app) verifyCommand(c *cli.Context) error {
	h, err := hasherByName(c.String("hash"))
	if err != nil {
		return err
	}

	root, err := hex.DecodeString(c.String("root"))
	if err != nil {
		return fmt.Errorf("failed to decode root: %w", err)
	}

	path := c.String("bundle")
	enc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read bundle: %w", err)
	}

	b, err := mpbundle.Unmarshal(enc, h)
	if err != nil {
		return fmt.Errorf("failed to decode bundle %s: %w", path, err)
	}

	ok, err := b.Verify(root)
	if err != nil {
		return fmt.Errorf("failed to verify bundle: %w", err)
	}
	if !ok {
		a.log.Info(
			"Proof did not match root",
			"path", path, "n_leaves", b.LeafCount, "indices", b.Indices,
		)
		return ErrInvalidProof
	}

	_, err = fmt.Fprintln(a.stdout, "valid")
	return err
}

// buildTree builds a tree from the command's positional arguments.
func (a *app) buildTree(c *cli.Context, h mphash.Hasher) (*multiproof.Tree, error) {
	args := c.Args().Slice()
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no leaves given", multiproof.ErrEmptyInput)
	}

	leaves := make([][]byte, len(args))
	for i, arg := range args {
		if c.Bool("hex") {
			b, err := hex.DecodeString(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to decode leaf %d: %w", i, err)
			}
			leaves[i] = b
			continue
		}

		leaves[i] = h.Leaf([]byte(arg), nil)
	}

	tree, err := multiproof.NewTree(leaves, h)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}

	a.log.Debug("Built tree", "n_leaves", tree.LeafCount(), "depth", tree.Depth())
	return tree, nil
}

func hasherByName(name string) (mphash.Hasher, error) {
	switch name {
	case "sha256":
		return mpsha256.Hasher{}, nil
	case "blake3":
		return mpblake3.Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash %q (want sha256 or blake3)", name)
	}
}
