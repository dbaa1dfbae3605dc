package logs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atelier.log")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	return path
}

func TestTailReturnsLastLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\n")

	var got []string
	err := Tail(context.Background(), path, TailOptions{Limit: 2}, func(line string) {
		got = append(got, line)
	})
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(got) != 2 || got[0] != "three" || got[1] != "four" {
		t.Fatalf("unexpected lines %v", got)
	}
}

func TestTailLimitLargerThanFile(t *testing.T) {
	path := writeLog(t, "one\ntwo\n")

	var got []string
	err := Tail(context.Background(), path, TailOptions{Limit: 10}, func(line string) {
		got = append(got, line)
	})
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("unexpected lines %v", got)
	}
}

func TestTailMissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")
	err := Tail(context.Background(), path, TailOptions{Limit: 5}, func(string) {
		t.Fatal("unexpected line")
	})
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
}

func TestTailFollowPicksUpAppendedLines(t *testing.T) {
	path := writeLog(t, "first\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Tail(ctx, path, TailOptions{Limit: 1, Follow: true, Poll: 5 * time.Millisecond}, func(line string) {
			lines <- line
		})
	}()

	waitLine := func(want string) {
		t.Helper()
		select {
		case line := <-lines:
			if line != want {
				t.Fatalf("got line %q, want %q", line, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	waitLine("first")

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log for append: %v", err)
	}
	if _, err := file.WriteString("second\n"); err != nil {
		t.Fatalf("append log line: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	waitLine("second")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Tail returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Tail did not stop after cancel")
	}
}
