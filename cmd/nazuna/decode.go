package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fkgwiki/nazuna/internal/bundle"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	decodeOutput    string
	decodeRecompile string
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Write the merged bundle as a plaintext dump",
	Long: `Decodes and merges the input files, then writes the plaintext dump
("TimeStamp:" line followed by one block per section). With --recompile
the merged bundle is also written back in the compressed format.`,
	Args: cobra.NoArgs,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "dump path (default from config)")
	decodeCmd.Flags().StringVar(&decodeRecompile, "recompile", "", "also write a compressed bundle to this path")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(_ *cobra.Command, _ []string) error {
	b, err := decodeInputs()
	if err != nil {
		return err
	}

	path := decodeOutput
	if path == "" {
		path = cfg.Output.Plaintext
	}
	if err := writeFile(path, []byte(b.Plaintext(time.Now()))); err != nil {
		return err
	}
	printSection("Decode")
	printStat("Sections", b.Len())
	printOK("Plaintext written to " + path)

	if decodeRecompile != "" {
		f, err := create(decodeRecompile)
		if err != nil {
			return err
		}
		if err := bundle.Encode(f, b); err != nil {
			f.Close()
			return fmt.Errorf("recompile: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		printOK("Bundle recompiled to " + decodeRecompile)
	}
	log.Debug("decode finished", zap.Strings("sections", b.Keys()))
	return nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func writeFile(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
