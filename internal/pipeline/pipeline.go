package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mihula/WebCommentsAnalysis/internal/analyzer"
	"github.com/mihula/WebCommentsAnalysis/internal/report"
	"github.com/mihula/WebCommentsAnalysis/internal/resolver"
	"github.com/mihula/WebCommentsAnalysis/internal/scanner"
	"github.com/mihula/WebCommentsAnalysis/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
)

// Pipeline runs lister, analyzer, resolver and renderer over a source tree
type Pipeline struct {
	Lister   *scanner.FileLister
	Analyzer *analyzer.DeclarationAnalyzer
	Resolver *resolver.EntityResolver
	Workers  int
	Logger   *logrus.Logger

	Files        []*models.FileRecord
	SkippedFiles []string
	Resolution   *resolver.Resolution
}

// NewPipeline creates a new pipeline
func NewPipeline(
	lister *scanner.FileLister,
	declarationAnalyzer *analyzer.DeclarationAnalyzer,
	entityResolver *resolver.EntityResolver,
	workers int,
	logger *logrus.Logger,
) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		Lister:   lister,
		Analyzer: declarationAnalyzer,
		Resolver: entityResolver,
		Workers:  workers,
		Logger:   logger,
	}
}

// Run scans root, resolves entities across all classes and writes the report to out
func (p *Pipeline) Run(ctx context.Context, root string, out io.Writer) error {
	// List source files
	paths, err := p.Lister.ListFiles(root, true)
	if err != nil {
		return err
	}

	// Analyze every file before resolution starts
	files, err := p.AnalyzeFiles(ctx, paths)
	if err != nil {
		return err
	}
	p.Files = files

	// Resolve entities over the complete class collection
	p.Resolution = p.Resolver.Resolve(models.Classes(files))

	report.LogSummary(p.Logger, p.Files, p.Resolution)

	// Render
	if err := report.WriteReport(out, p.Files); err != nil {
		return err
	}
	return nil
}

// AnalyzeFiles analyzes paths with up to Workers goroutines, keeping the input order.
// Files without a syntax tree are skipped; any other error aborts the run.
func (p *Pipeline) AnalyzeFiles(ctx context.Context, paths []string) ([]*models.FileRecord, error) {
	mapper := iter.Mapper[string, *models.FileRecord]{MaxGoroutines: p.Workers}

	records, err := mapper.MapErr(paths, func(path *string) (*models.FileRecord, error) {
		record, err := p.Analyzer.AnalyzeFile(ctx, *path)
		if errors.Is(err, analyzer.ErrNoSyntaxTree) {
			p.Logger.Warningf("Skipping %s: %v", *path, err)
			return nil, nil
		}
		return record, err
	})
	if err != nil {
		return nil, fmt.Errorf("analyze files: %w", err)
	}

	files := make([]*models.FileRecord, 0, len(records))
	p.SkippedFiles = nil
	for i, record := range records {
		if record == nil {
			p.SkippedFiles = append(p.SkippedFiles, paths[i])
			continue
		}
		files = append(files, record)
	}

	p.Logger.Infof("Analyzed %d files (%d skipped)", len(files), len(p.SkippedFiles))
	return files, nil
}
