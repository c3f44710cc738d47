package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolExchange/internal/config"
	"poolExchange/internal/model"
	"poolExchange/internal/report"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := openEnvironment(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		env.Close(ctx)
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	outWriter, err := newJSONLWriter(cfg.Out, cfg.Append)
	if err != nil {
		env.Close(ctx)
		return err
	}
	defer outWriter.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, cfg.Append)
	if err != nil {
		env.Close(ctx)
		return err
	}
	defer errWriter.Close()

	logger.Info("replay start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.Bool("append", cfg.Append),
	)

	activity := report.New(env.pools, env.ledger, logger)

	scanner := bufio.NewScanner(inputFile)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, executed, failed int
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.InstructionRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			writeExecError(errWriter, model.ExecError{Error: err.Error()})
			continue
		}

		ev, err := env.execute(ctx, record)
		if err != nil {
			failed++
			writeExecError(errWriter, execErrorFromRecord(record, err))
			continue
		}

		out := model.ExecutionRecord{
			Seq:        record.Seq,
			Op:         record.Op,
			Event:      ev,
			ExecutedAt: time.Now().UTC().Format(time.RFC3339Nano),
		}
		if ev != nil {
			out.Pool = ev.Pool.String()
			if err := activity.Add(*ev); err != nil {
				logger.Warn("activity", zap.Uint64("seq", record.Seq), zap.Error(err))
			}
		}
		if err := outWriter.Write(out); err != nil {
			env.Close(ctx)
			return err
		}
		executed++
	}

	if err := scanner.Err(); err != nil {
		env.Close(ctx)
		return fmt.Errorf("scan input: %w", err)
	}

	if err := writeSummary(ctx, activity, cfg); err != nil {
		logger.Warn("activity summary", zap.Error(err))
	}
	if err := env.Close(context.Background()); err != nil {
		return fmt.Errorf("close environment: %w", err)
	}

	swaps, deposits, withdrawals := activity.Totals()
	logger.Info("replay complete",
		zap.Int("total", total),
		zap.Int("executed", executed),
		zap.Int("failed", failed),
		zap.Uint64("swaps", swaps),
		zap.Uint64("deposits", deposits),
		zap.Uint64("withdrawals", withdrawals),
	)

	return ctx.Err()
}

func writeSummary(ctx context.Context, activity *report.Report, cfg config.ReplayConfig) error {
	if cfg.Summary == "" {
		return nil
	}
	rows, err := activity.Activities(ctx)
	if err != nil {
		return err
	}
	w, err := newJSONLWriter(cfg.Summary, false)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func execErrorFromRecord(record model.InstructionRecord, err error) model.ExecError {
	return model.ExecError{
		Seq:   record.Seq,
		Op:    record.Op,
		Code:  model.ErrorCode(err),
		Error: err.Error(),
	}
}

func writeExecError(writer *jsonlWriter, errRecord model.ExecError) {
	if writer == nil {
		return
	}
	_ = writer.Write(errRecord)
}
