package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

type VariantKind string

const (
	KindFixed   VariantKind = "fixed"
	KindSampled VariantKind = "sampled"
)

var (
	ErrUnknownVariant = errors.New("quiz: unknown variant")
	ErrInvalidVariant = errors.New("quiz: invalid variant")
	ErrBadSelection   = errors.New("quiz: question selection does not match variant")
)

// Variant 一种答题表单：固定题号，或从题池中无放回抽样
type Variant struct {
	Name      string      `yaml:"name"`
	Kind      VariantKind `yaml:"kind"`
	Questions []string    `yaml:"questions"`
	Size      int         `yaml:"size"`
	ViewPath  string      `yaml:"view_path"`
}

// QuestionCount is the number of questions a single submission presents.
func (v Variant) QuestionCount() int {
	if v.Kind == KindSampled {
		return v.Size
	}
	return len(v.Questions)
}

type Catalog struct {
	bank     *Bank
	variants map[string]Variant
	order    []string
}

type catalogFile struct {
	Questions []Entry   `yaml:"questions"`
	Variants  []Variant `yaml:"variants"`
}

func NewCatalog(bank *Bank, variants []Variant) (*Catalog, error) {
	c := &Catalog{bank: bank, variants: make(map[string]Variant, len(variants))}
	for _, v := range variants {
		if err := c.check(v); err != nil {
			return nil, err
		}
		if _, ok := c.variants[v.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidVariant, v.Name)
		}
		if v.ViewPath == "" {
			v.ViewPath = "/response"
		}
		v.Questions = append([]string(nil), v.Questions...)
		c.variants[v.Name] = v
		c.order = append(c.order, v.Name)
	}
	return c, nil
}

func (c *Catalog) check(v Variant) error {
	if v.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidVariant)
	}
	if len(v.Questions) == 0 {
		return fmt.Errorf("%w: %s has no questions", ErrInvalidVariant, v.Name)
	}
	seen := make(map[string]bool, len(v.Questions))
	for _, id := range v.Questions {
		if _, ok := c.bank.ByID(id); !ok {
			return fmt.Errorf("%w: %s references %s", ErrUnknownQuestion, v.Name, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s repeats %s", ErrInvalidVariant, v.Name, id)
		}
		seen[id] = true
	}
	switch v.Kind {
	case KindFixed:
	case KindSampled:
		if v.Size <= 0 || v.Size > len(v.Questions) {
			return fmt.Errorf("%w: %s sample size %d out of range", ErrInvalidVariant, v.Name, v.Size)
		}
	default:
		return fmt.Errorf("%w: %s has kind %q", ErrInvalidVariant, v.Name, v.Kind)
	}
	return nil
}

func (c *Catalog) Bank() *Bank {
	return c.bank
}

func (c *Catalog) Variant(name string) (Variant, error) {
	v, ok := c.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	v.Questions = append([]string(nil), v.Questions...)
	return v, nil
}

// Variants 按配置顺序返回
func (c *Catalog) Variants() []Variant {
	out := make([]Variant, 0, len(c.order))
	for _, name := range c.order {
		v, _ := c.Variant(name)
		out = append(out, v)
	}
	return out
}

// Present picks the questions shown on an empty form. Fixed variants always
// return their slots; sampled variants draw Size ids from the pool without
// replacement.
func (c *Catalog) Present(v Variant, r *rand.Rand) ([]Entry, error) {
	if v.Kind == KindFixed {
		return c.bank.Resolve(v.Questions)
	}
	perm := r.Perm(len(v.Questions))
	ids := make([]string, v.Size)
	for i := range ids {
		ids[i] = v.Questions[perm[i]]
	}
	return c.bank.Resolve(ids)
}

// Selection rebuilds the entries a submission was graded against. For fixed
// variants the submitted ids are ignored. For sampled variants they must be
// distinct members of the pool.
func (c *Catalog) Selection(v Variant, submitted []string) ([]Entry, error) {
	if v.Kind == KindFixed {
		return c.bank.Resolve(v.Questions)
	}
	if len(submitted) != v.Size {
		return nil, fmt.Errorf("%w: want %d questions, got %d", ErrBadSelection, v.Size, len(submitted))
	}
	pool := make(map[string]bool, len(v.Questions))
	for _, id := range v.Questions {
		pool[id] = true
	}
	seen := make(map[string]bool, len(submitted))
	for _, id := range submitted {
		if !pool[id] || seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrBadSelection, id)
		}
		seen[id] = true
	}
	return c.bank.Resolve(submitted)
}

func DefaultVariants() []Variant {
	return []Variant{
		{Name: "new", Kind: KindFixed, Questions: []string{"q1", "q2", "q3"}, ViewPath: "/response"},
		{Name: "new2", Kind: KindFixed, Questions: []string{"q4", "q5", "q6"}, ViewPath: "/response2"},
		{Name: "new3", Kind: KindFixed, Questions: []string{"q7", "q8", "q9"}, ViewPath: "/response3"},
		{Name: "random", Kind: KindSampled, Questions: []string{"q1", "q2", "q3", "q4", "q5"}, Size: 3, ViewPath: "/response"},
	}
}

func DefaultCatalog() (*Catalog, error) {
	bank, err := NewBank(DefaultEntries())
	if err != nil {
		return nil, err
	}
	return NewCatalog(bank, DefaultVariants())
}

// LoadCatalog 读取 YAML 题库文件；path 为空时使用内置题库
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answer bank: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse answer bank: %w", err)
	}
	if len(f.Questions) == 0 {
		f.Questions = DefaultEntries()
	}
	if len(f.Variants) == 0 {
		f.Variants = DefaultVariants()
	}
	bank, err := NewBank(f.Questions)
	if err != nil {
		return nil, err
	}
	return NewCatalog(bank, f.Variants)
}
