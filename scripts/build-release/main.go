package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	executableName = "datepicker"
	versionSymbol  = "github.com/glanceapp/datepicker/internal/glance.buildVersion"
)

type target struct {
	os   string
	arch string
	arm  int
}

func (t target) binaryName() string {
	name := fmt.Sprintf("%s-%s-%s", executableName, t.os, t.arch)

	if t.arm != 0 {
		name += fmt.Sprintf("v%d", t.arm)
	}

	if t.os == "windows" {
		name += ".exe"
	}

	return name
}

var targets = []target{
	{os: "linux", arch: "amd64"},
	{os: "linux", arch: "arm64"},
	{os: "linux", arch: "arm", arm: 7},
	{os: "darwin", arch: "arm64"},
	{os: "windows", arch: "amd64"},
}

func main() {
	flags := flag.NewFlagSet("", flag.ExitOnError)
	version := flags.String("version", "", "Version to embed, defaults to the latest git tag")
	output := flags.String("output", "./build", "Directory the binaries are written to")

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *version == "" {
		tag, err := exec.Command("git", "describe", "--tags", "--abbrev=0").CombinedOutput()
		if err != nil {
			fmt.Printf("Could not determine version: %v\n%s", err, tag)
			os.Exit(1)
		}

		*version = strings.TrimSpace(string(tag))
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	for _, t := range targets {
		fmt.Printf("Building %s for %s/%s\n", *version, t.os, t.arch)

		if err := build(t, *version, *output); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

func build(t target, version, output string) error {
	cmd := exec.Command(
		"go", "build",
		"-trimpath",
		"-ldflags", fmt.Sprintf("-s -w -X %s=%s", versionSymbol, version),
		"-o", filepath.Join(output, t.binaryName()),
		".",
	)

	cmd.Env = append(os.Environ(), "GOOS="+t.os, "GOARCH="+t.arch, "CGO_ENABLED=0")
	if t.arm != 0 {
		cmd.Env = append(cmd.Env, fmt.Sprintf("GOARM=%d", t.arm))
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("building %s: %w\n%s", t.binaryName(), err, out)
	}

	return nil
}
