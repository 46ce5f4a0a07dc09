package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestReadErrorTemplateConstant       = "failed to read manifest %s: %w"
	manifestParseErrorTemplateConstant      = "failed to parse manifest %s: %w"
	environmentDecodeErrorTemplateConstant  = "failed to decode ENV overrides: %w"
	reservedKeyPrivateConstant              = "PRIVATE"
	reservedKeyOnlyConstant                 = "ONLY"
	reservedKeyEnvironmentOverridesConstant = "ENV"
)

// Reserved addons-manifest keys that never name a repository.
const (
	ReservedKeyPrivate              = reservedKeyPrivateConstant
	ReservedKeyOnly                 = reservedKeyOnlyConstant
	ReservedKeyEnvironmentOverrides = reservedKeyEnvironmentOverridesConstant
)

// Document is one YAML document of a manifest: a mapping from top-level keys
// to opaque per-key configuration.
type Document map[string]yaml.Node

// LoadDocuments reads a manifest file and decodes every YAML document it
// contains. Callers treat a missing or unparsable file as an empty manifest;
// this function only reports the underlying failure.
func LoadDocuments(manifestFilePath string) ([]Document, error) {
	manifestContent, readError := os.ReadFile(manifestFilePath)
	if readError != nil {
		return nil, fmt.Errorf(manifestReadErrorTemplateConstant, manifestFilePath, readError)
	}

	documentDecoder := yaml.NewDecoder(bytes.NewReader(manifestContent))
	var manifestDocuments []Document
	for {
		var manifestDocument Document
		decodeError := documentDecoder.Decode(&manifestDocument)
		if errors.Is(decodeError, io.EOF) {
			break
		}
		if decodeError != nil {
			return nil, fmt.Errorf(manifestParseErrorTemplateConstant, manifestFilePath, decodeError)
		}
		if manifestDocument == nil {
			continue
		}
		manifestDocuments = append(manifestDocuments, manifestDocument)
	}

	return manifestDocuments, nil
}

// RepositoryKeys lists the document keys that name repositories, skipping the
// reserved addons-manifest keys.
func (document Document) RepositoryKeys() []string {
	repositoryKeys := make([]string, 0, len(document))
	for documentKey := range document {
		if IsReservedKey(documentKey) {
			continue
		}
		repositoryKeys = append(repositoryKeys, documentKey)
	}
	return repositoryKeys
}

// EnvironmentOverrides decodes the document's ENV mapping when present.
// Scalar values keep their literal spelling, so numeric overrides such as a
// clone depth of 1 survive as "1".
func (document Document) EnvironmentOverrides() (map[string]string, error) {
	environmentNode, environmentPresent := document[reservedKeyEnvironmentOverridesConstant]
	if !environmentPresent {
		return nil, nil
	}

	environmentNodes := map[string]yaml.Node{}
	if decodeError := environmentNode.Decode(&environmentNodes); decodeError != nil {
		return nil, fmt.Errorf(environmentDecodeErrorTemplateConstant, decodeError)
	}

	environmentOverrides := make(map[string]string, len(environmentNodes))
	for overrideName, overrideNode := range environmentNodes {
		environmentOverrides[overrideName] = overrideNode.Value
	}
	return environmentOverrides, nil
}

// IsReservedKey reports whether the key carries addons-manifest metadata
// rather than naming a repository.
func IsReservedKey(documentKey string) bool {
	switch documentKey {
	case reservedKeyPrivateConstant, reservedKeyOnlyConstant, reservedKeyEnvironmentOverridesConstant:
		return true
	default:
		return false
	}
}
