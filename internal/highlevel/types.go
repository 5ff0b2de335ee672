package highlevel

// Field data types accepted by the custom field endpoints
var DataTypes = []string{
	"TEXT", "LARGE_TEXT", "NUMERICAL", "PHONE", "MONETORY", "CHECKBOX",
	"SINGLE_OPTIONS", "MULTIPLE_OPTIONS", "FLOAT", "TIME", "DATE",
	"TEXTBOX_LIST", "FILE_UPLOAD", "SIGNATURE", "EMAIL",
}

// Models a location custom field can belong to
var Models = []string{"contact", "opportunity"}

// CustomField is a location-scoped contact or opportunity field.
type CustomField struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	FieldKey              string          `json:"fieldKey,omitempty"`
	Placeholder           string          `json:"placeholder,omitempty"`
	DataType              string          `json:"dataType"`
	Position              int             `json:"position,omitempty"`
	Model                 string          `json:"model,omitempty"`
	LocationID            string          `json:"locationId,omitempty"`
	ParentID              string          `json:"parentId,omitempty"`
	PicklistOptions       []string        `json:"picklistOptions,omitempty"`
	TextBoxListOptions    []TextBoxOption `json:"textBoxListOptions,omitempty"`
	IsAllowedCustomOption bool            `json:"isAllowedCustomOption,omitempty"`
	IsMultiFileAllowed    bool            `json:"isMultiFileAllowed,omitempty"`
	MaxFileLimit          int             `json:"maxFileLimit,omitempty"`
	Standard              bool            `json:"standard,omitempty"`
	DateAdded             string          `json:"dateAdded,omitempty"`
}

type TextBoxOption struct {
	Label        string `json:"label"`
	PrefillValue string `json:"prefillValue,omitempty"`
}

// CustomFieldInput is the body of create/update for location custom fields
type CustomFieldInput struct {
	Name               string          `json:"name,omitempty"`
	DataType           string          `json:"dataType,omitempty"`
	Placeholder        string          `json:"placeholder,omitempty"`
	FieldKey           string          `json:"fieldKey,omitempty"`
	Position           *int            `json:"position,omitempty"`
	Model              string          `json:"model,omitempty"`
	Options            []string        `json:"options,omitempty"`
	AcceptedFormat     []string        `json:"acceptedFormat,omitempty"`
	IsMultipleFile     *bool           `json:"isMultipleFile,omitempty"`
	MaxNumberOfFiles   *int            `json:"maxNumberOfFiles,omitempty"`
	TextBoxListOptions []TextBoxOption `json:"textBoxListOptions,omitempty"`
}

type customFieldEnvelope struct {
	CustomField CustomField `json:"customField"`
}

type CustomFieldList struct {
	CustomFields []CustomField `json:"customFields"`
}

// CustomValue is a location-wide named value usable in templates
type CustomValue struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FieldKey   string `json:"fieldKey,omitempty"`
	Value      string `json:"value"`
	LocationID string `json:"locationId,omitempty"`
}

type CustomValueInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type customValueEnvelope struct {
	CustomValue CustomValue `json:"customValue"`
}

type CustomValueList struct {
	CustomValues []CustomValue `json:"customValues"`
}

// ObjectField is a field of a custom object (or standard object) in the v2 API.
type ObjectField struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Placeholder       string         `json:"placeholder,omitempty"`
	FieldKey          string         `json:"fieldKey"`
	DataType          string         `json:"dataType"`
	ObjectKey         string         `json:"objectKey"`
	LocationID        string         `json:"locationId,omitempty"`
	ParentID          string         `json:"parentId,omitempty"`
	ShowInForms       bool           `json:"showInForms,omitempty"`
	Options           []ObjectOption `json:"options,omitempty"`
	AcceptedFormats   string         `json:"acceptedFormats,omitempty"`
	MaxFileLimit      int            `json:"maxFileLimit,omitempty"`
	AllowCustomOption bool           `json:"allowCustomOption,omitempty"`
	Standard          bool           `json:"standard,omitempty"`
	DateAdded         string         `json:"dateAdded,omitempty"`
	DateUpdated       string         `json:"dateUpdated,omitempty"`
}

type ObjectOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// ObjectFieldInput is the body of create/update for object fields.
// ObjectKey, FieldKey, DataType and ParentID are only honoured on create.
type ObjectFieldInput struct {
	LocationID        string         `json:"locationId"`
	Name              string         `json:"name,omitempty"`
	Description       string         `json:"description,omitempty"`
	Placeholder       string         `json:"placeholder,omitempty"`
	ShowInForms       *bool          `json:"showInForms,omitempty"`
	Options           []ObjectOption `json:"options,omitempty"`
	AcceptedFormats   string         `json:"acceptedFormats,omitempty"`
	MaxFileLimit      *int           `json:"maxFileLimit,omitempty"`
	AllowCustomOption *bool          `json:"allowCustomOption,omitempty"`
	DataType          string         `json:"dataType,omitempty"`
	FieldKey          string         `json:"fieldKey,omitempty"`
	ObjectKey         string         `json:"objectKey,omitempty"`
	ParentID          string         `json:"parentId,omitempty"`
}

type objectFieldEnvelope struct {
	Field ObjectField `json:"field"`
}

type ObjectFieldList struct {
	Fields  []ObjectField `json:"fields"`
	Folders []Folder      `json:"folders"`
}

// Folder groups object fields
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ObjectKey   string `json:"objectKey"`
	LocationID  string `json:"locationId,omitempty"`
	DateAdded   string `json:"dateAdded,omitempty"`
	DateUpdated string `json:"dateUpdated,omitempty"`
}

type FolderInput struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	ObjectKey  string `json:"objectKey,omitempty"`
}

// DeleteResult is returned by delete endpoints. The API spells the flag
// "succeded"; both spellings are accepted.
type DeleteResult struct {
	Succeded  *bool  `json:"succeded,omitempty"`
	Succeeded *bool  `json:"succeeded,omitempty"`
	ID        string `json:"id,omitempty"`
	Key       string `json:"key,omitempty"`
}

// OK reports success; an empty 2xx body counts as success.
func (d DeleteResult) OK() bool {
	if d.Succeded != nil {
		return *d.Succeded
	}
	if d.Succeeded != nil {
		return *d.Succeeded
	}
	return true
}
