package models

// FileRecord represents one analyzed source file and the classes declared in it
type FileRecord struct {
	FullPath   string
	ModuleName string
	FileName   string
	Classes    []*ClassRecord
}

// ClassRecord represents a single class declaration (each partial declaration is its own record)
type ClassRecord struct {
	ClassName      string
	FormClassName  *string
	EntityName     string
	ClassStatus    *string
	ClassSubStatus *string
	Methods        []MethodRecord

	// File fields are copied at construction time instead of pointing back at the FileRecord
	ModuleName string
	FileName   string
}

// HasEntity reports whether the class has an entity name
func (c *ClassRecord) HasEntity() bool {
	return c.EntityName != ""
}

// MethodRecord represents a method declared inside a class
type MethodRecord struct {
	Signature string
	Status    *string
	SubStatus *string
	LineCount int
}

// Annotation is the status and optional sub-status carried by a //WEB: comment
type Annotation struct {
	Status    string
	SubStatus *string
}

// Row is one line of the tabular report
type Row struct {
	Module         string
	FileName       string
	Entity         string
	ClassName      string
	FormClassName  string
	ClassStatus    string
	ClassSubStatus string
	MethodName     string
	Status         string
	SubStatus      string
	Size           int
}

// Classes flattens the class records of all files, preserving file then declaration order
func Classes(files []*FileRecord) []*ClassRecord {
	var classes []*ClassRecord
	for _, f := range files {
		classes = append(classes, f.Classes...)
	}
	return classes
}

// StringValue returns the pointed-to string or an empty string for nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string {
	return &s
}
