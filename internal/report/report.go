package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mihula/WebCommentsAnalysis/internal/resolver"
	"github.com/mihula/WebCommentsAnalysis/pkg/models"
	"github.com/sirupsen/logrus"
)

// Header is the first line of the report
var Header = []string{
	"MODULE", "FILENAME", "ENTITY", "CLASSNAME", "FORMCLASSNAME", "CLASSSTATUS", "CLASSSUBSTATUS",
	"METHODNAME", "STATUS", "SUBSTATUS", "SIZE",
}

// Rows flattens files into report rows in file, class, method order.
// A class without methods gets one row standing in for itself with size 1.
func Rows(files []*models.FileRecord) []models.Row {
	var rows []models.Row

	for _, file := range files {
		for _, class := range file.Classes {
			base := models.Row{
				Module:         file.ModuleName,
				FileName:       file.FileName,
				Entity:         class.EntityName,
				ClassName:      class.ClassName,
				FormClassName:  models.StringValue(class.FormClassName),
				ClassStatus:    models.StringValue(class.ClassStatus),
				ClassSubStatus: models.StringValue(class.ClassSubStatus),
			}

			if len(class.Methods) == 0 {
				row := base
				row.MethodName = class.ClassName
				row.Status = base.ClassStatus
				row.SubStatus = base.ClassSubStatus
				row.Size = 1
				rows = append(rows, row)
				continue
			}

			for _, method := range class.Methods {
				row := base
				row.MethodName = method.Signature
				row.Status = models.StringValue(method.Status)
				row.SubStatus = models.StringValue(method.SubStatus)
				row.Size = method.LineCount
				rows = append(rows, row)
			}
		}
	}

	return rows
}

// FormatRow renders a row as tab-separated fields without the line terminator
func FormatRow(row models.Row) string {
	return strings.Join([]string{
		row.Module,
		row.FileName,
		row.Entity,
		row.ClassName,
		row.FormClassName,
		row.ClassStatus,
		row.ClassSubStatus,
		row.MethodName,
		row.Status,
		row.SubStatus,
		strconv.Itoa(row.Size),
	}, "\t")
}

// WriteReport writes the header and one line per row to w
func WriteReport(w io.Writer, files []*models.FileRecord) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, strings.Join(Header, "\t")); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range Rows(files) {
		if _, err := fmt.Fprintln(bw, FormatRow(row)); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// LogSummary logs totals for the analyzed files and the entity resolution
func LogSummary(logger *logrus.Logger, files []*models.FileRecord, resolution *resolver.Resolution) {
	classes := 0
	methods := 0
	for _, file := range files {
		classes += len(file.Classes)
		for _, class := range file.Classes {
			methods += len(class.Methods)
		}
	}

	logger.WithFields(logrus.Fields{
		"files":   len(files),
		"classes": classes,
		"methods": methods,
	}).Info("Analysis summary")

	if resolution == nil {
		return
	}

	logger.WithFields(logrus.Fields{
		"direct":     resolution.Count(resolver.Direct),
		"similar":    resolution.Count(resolver.Similar),
		"guessed":    resolution.Count(resolver.Guessed),
		"unresolved": resolution.Count(resolver.Unresolved),
		"passes":     resolution.Passes,
	}).Info("Entity resolution summary")

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		for _, class := range resolution.Unresolved {
			logger.Debugf("No entity for %s (%s/%s)", class.ClassName, class.ModuleName, class.FileName)
		}
		for _, class := range resolution.Resolved {
			if origin := resolution.Origin(class); origin != nil && origin != class {
				logger.Debugf("%s has entity %s from %s", class.ClassName, class.EntityName, origin.ClassName)
			}
		}
	}
}
