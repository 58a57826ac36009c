package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mihula/WebCommentsAnalysis/internal/csparser"
	"github.com/mihula/WebCommentsAnalysis/internal/entity"
	"github.com/mihula/WebCommentsAnalysis/pkg/models"
	"github.com/sirupsen/logrus"
)

// ConfigurationAttribute is the attribute whose first argument names the form class
const ConfigurationAttribute = "Configuration"

// ErrNoSyntaxTree is returned when a file could not be parsed at all
var ErrNoSyntaxTree = errors.New("no syntax tree")

// DeclarationAnalyzer extracts class and method records from C# source files
type DeclarationAnalyzer struct {
	Dictionary *entity.Dictionary
	Logger     *logrus.Logger
}

// NewDeclarationAnalyzer creates a new declaration analyzer
func NewDeclarationAnalyzer(dictionary *entity.Dictionary, logger *logrus.Logger) *DeclarationAnalyzer {
	return &DeclarationAnalyzer{
		Dictionary: dictionary,
		Logger:     logger,
	}
}

// AnalyzeFile reads and parses a file and returns its record.
// Read failures are returned as is; parse failures wrap ErrNoSyntaxTree.
func (da *DeclarationAnalyzer) AnalyzeFile(ctx context.Context, path string) (*models.FileRecord, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	parser := csparser.NewParser()
	defer parser.Close()

	tree, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrNoSyntaxTree, path, err)
	}
	if tree.HasErrors {
		da.Logger.Warningf("Syntax errors in %s, analyzing what could be parsed", path)
	}

	return da.BuildFileRecord(path, tree), nil
}

// BuildFileRecord converts a parsed file into a FileRecord
func (da *DeclarationAnalyzer) BuildFileRecord(path string, tree *csparser.Tree) *models.FileRecord {
	fullPath, err := filepath.Abs(path)
	if err != nil {
		fullPath = path
	}

	file := &models.FileRecord{
		FullPath:   fullPath,
		ModuleName: ModuleName(fullPath),
		FileName:   filepath.Base(fullPath),
		Classes:    make([]*models.ClassRecord, 0, len(tree.Classes)),
	}

	for _, classNode := range tree.Classes {
		class := da.buildClassRecord(classNode)
		class.ModuleName = file.ModuleName
		class.FileName = file.FileName
		file.Classes = append(file.Classes, class)
	}

	da.Logger.Debugf("Analyzed %s: %d classes", fullPath, len(file.Classes))
	return file
}

// ModuleName returns the name of the directory containing path, or "" when that
// directory is the filesystem root
func ModuleName(path string) string {
	dir := filepath.Dir(path)
	if filepath.Dir(dir) == dir {
		return ""
	}
	return filepath.Base(dir)
}

// buildClassRecord builds a class record, deriving its entity from the form class when possible
func (da *DeclarationAnalyzer) buildClassRecord(node csparser.ClassNode) *models.ClassRecord {
	class := &models.ClassRecord{
		ClassName: node.Name,
		Methods:   make([]models.MethodRecord, 0, len(node.Methods)),
	}

	class.FormClassName = FormClassName(node.Attributes)
	class.EntityName = da.Dictionary.FormClassToEntity(class.FormClassName)
	class.ClassStatus, class.ClassSubStatus = annotate(node.LeadingComments)

	for _, methodNode := range node.Methods {
		method := models.MethodRecord{
			Signature: MethodSignature(methodNode),
			LineCount: MethodLineCount(methodNode.Body, methodNode.HasBody),
		}
		method.Status, method.SubStatus = annotate(methodNode.LeadingComments)
		class.Methods = append(class.Methods, method)
	}

	return class
}

// FormClassName returns the quote-trimmed first argument of the first Configuration attribute
func FormClassName(attributes []csparser.Attribute) *string {
	for _, attr := range attributes {
		if attr.Name != ConfigurationAttribute {
			continue
		}
		if !attr.HasArgument {
			return nil
		}
		return models.StringPtr(strings.Trim(attr.FirstArgument, `"`))
	}
	return nil
}

// MethodSignature formats "<returnType> <name>(<param>, <param>)"
func MethodSignature(method csparser.MethodNode) string {
	return fmt.Sprintf("%s %s(%s)", method.ReturnType, method.Name, strings.Join(method.Parameters, ", "))
}
