package storage

import (
	"encoding/json"
	"fmt"

	"github.com/valter-silva-au/taskpad/pkg/models"
	"gopkg.in/yaml.v3"
)

// Codec serialises the task collection.
type Codec interface {
	Marshal(tasks []models.Task) ([]byte, error)
	Unmarshal(data []byte) ([]models.Task, error)
	// Ext is the file extension used for values written with this codec.
	Ext() string
}

// NewCodec returns the codec for format ("json" or "yaml").
func NewCodec(format string) (Codec, error) {
	switch format {
	case "json", "":
		return jsonCodec{}, nil
	case "yaml":
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage format %q", format)
	}
}

type jsonCodec struct{}

func (jsonCodec) Marshal(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return json.Marshal(tasks)
}

func (jsonCodec) Unmarshal(data []byte) ([]models.Task, error) {
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return tasks, nil
}

func (jsonCodec) Ext() string { return "json" }

// yamlFile is the top-level document written by the YAML codec.
type yamlFile struct {
	Version string        `yaml:"version"`
	Tasks   []models.Task `yaml:"tasks"`
}

type yamlCodec struct{}

func (yamlCodec) Marshal(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return yaml.Marshal(&yamlFile{Version: "1.0", Tasks: tasks})
}

func (yamlCodec) Unmarshal(data []byte) ([]models.Task, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return f.Tasks, nil
}

func (yamlCodec) Ext() string { return "yaml" }
