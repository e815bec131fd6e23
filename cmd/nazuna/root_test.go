package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fkgwiki/nazuna/internal/bundle"
	"github.com/fkgwiki/nazuna/internal/data"
	"github.com/fkgwiki/nazuna/internal/wiki"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		inputFlag = nil
		knightTemplate, knightRows, knightEnglish = false, false, ""
		equipmentRows = false
		renderList, renderDir = false, ""
		decodeOutput, decodeRecompile = "", ""
	}()
	t.Setenv("NAZUNA_CONFIG", "")
	err := rootCmd.Execute()
	return buf.String(), err
}

func characterRow(id, tier string) string {
	l := data.CharacterV3.Layout
	values := make([]string, l.Len())
	for k, v := range map[string]string{
		"id0": id, "fullName": "ナズナ", "evolutionTier": tier, "charID2": "100",
		"isFlowerKnight1": "1", "rarity": "5", "date0": "2018/01/01 00:00:00",
		"canRarityGrow": "0",
	} {
		i, _ := l.Index(k)
		values[i] = v
	}
	return strings.Join(values, data.FieldDelimiter)
}

func writeInput(t *testing.T) string {
	t.Helper()
	b := bundle.New()
	b.SetText(data.SectionCharacter, characterRow("100001", "1")+"\n"+characterRow("100003", "2"))
	path := filepath.Join(t.TempDir(), "getMaster.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.Plaintext(time.Now())), 0o644))
	return path
}

func TestRenderCmd_List(t *testing.T) {
	out, err := execute(t, "render", "--list")
	require.NoError(t, err)
	for _, title := range wiki.Titles() {
		assert.Contains(t, out, title)
	}
}

func TestDecodeCmd(t *testing.T) {
	input := writeInput(t)
	dir := t.TempDir()
	dump := filepath.Join(dir, "dump.txt")
	packed := filepath.Join(dir, "packed.dat")

	out, err := execute(t, "decode", "-i", input, "-o", dump, "--recompile", packed)
	require.NoError(t, err)
	assert.Contains(t, out, "Plaintext written")

	b, err := bundle.Decode(packed)
	require.NoError(t, err)
	assert.Len(t, b.Rows(data.SectionCharacter), 2)

	raw, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "TimeStamp:"))
}

func TestKnightCmd(t *testing.T) {
	input := writeInput(t)

	out, err := execute(t, "knight", "-i", input, "100003")
	require.NoError(t, err)
	assert.Contains(t, out, "ナズナ")
	assert.Contains(t, out, "100003")

	out, err = execute(t, "knight", "-i", input, "--template", "ナズナ")
	require.NoError(t, err)
	assert.Contains(t, out, "{{CharacterStat")

	_, err = execute(t, "knight", "-i", input, "ウメ")
	assert.ErrorContains(t, err, "matches no knight")
}

func TestRenderCmd_WritesPages(t *testing.T) {
	input := writeInput(t)
	dir := t.TempDir()

	out, err := execute(t, "render", "-i", input, "-d", dir, wiki.TitleMasterCharacter)
	require.NoError(t, err)
	assert.Contains(t, out, wiki.TitleMasterCharacter)

	_, err = os.Stat(filepath.Join(dir, "Module_MasterCharacterData.lua"))
	assert.NoError(t, err)
}
