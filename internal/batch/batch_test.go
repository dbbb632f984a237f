package batch

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunKeepsOrderAndRunsEveryTask(t *testing.T) {
	tasks := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff", "g"}
	var calls atomic.Int32

	results := Run(Config{Workers: 3, Interval: time.Millisecond}, tasks, func(task string) Result {
		calls.Add(1)
		time.Sleep(time.Duration(len(task)) * time.Millisecond)
		if task == "ccc" {
			return Result{Error: "boom"}
		}
		return Result{Bytes: int64(len(task)), Success: true}
	})

	if int(calls.Load()) != len(tasks) {
		t.Fatalf("job ran %d times, want %d", calls.Load(), len(tasks))
	}
	for i, r := range results {
		if r.Task != tasks[i] {
			t.Errorf("result %d task = %q, want %q", i, r.Task, tasks[i])
		}
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Task != "ccc" || failed[0].Error != "boom" {
		t.Errorf("failed = %+v", failed)
	}
}

func TestRunEmpty(t *testing.T) {
	if got := Run(Config{}, nil, func(string) Result { return Result{} }); len(got) != 0 {
		t.Errorf("results = %v", got)
	}
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "notes.txt", "c.tga"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := CollectInputs(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range got {
		names = append(names, filepath.Base(p))
	}
	if strings.Join(names, ",") != "a.jpg,b.PNG,c.tga" {
		t.Errorf("inputs = %v", names)
	}

	if _, err := CollectInputs(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	results := []Result{
		{Task: "x.png", Output: "out/x.png", Bytes: 10, Success: true},
		{Task: "y.png", Error: errors.New("decode").Error()},
	}
	if err := WriteManifest(path, "removebg", results); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Tool != "removebg" || m.Succeeded != 1 || m.Failed != 1 || len(m.Results) != 2 {
		t.Errorf("manifest = %+v", m)
	}
}
