// This file contains the logic for translating parsed HCL blocks into the
// declarative calls the factory proxy understands.

package hclfactory

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/fabrica/decl"
	"github.com/vk/fabrica/factory"
	"github.com/zclconf/go-cty/cty"
)

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "factory", LabelNames: []string{"name"}},
		{Type: "sequence", LabelNames: []string{"name"}},
	},
}

var factoryBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "parent"},
		{Name: "traits"},
		{Name: "aliases"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "attributes"},
		{Type: "transient"},
		{Type: "sequence", LabelNames: []string{"name"}},
		{Type: "trait", LabelNames: []string{"name"}},
		{Type: "association", LabelNames: []string{"name"}},
		{Type: "factory", LabelNames: []string{"name"}},
	},
}

// Trait bodies look like factory bodies minus factory options and nested
// factories.
var traitBodySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "attributes"},
		{Type: "transient"},
		{Type: "sequence", LabelNames: []string{"name"}},
		{Type: "association", LabelNames: []string{"name"}},
	},
}

// parsedFactory is one factory block, fully translated but not yet defined.
type parsedFactory struct {
	name    string
	options factory.FactoryOptions
	body    *parsedBody
}

// parsedBody holds the translated contents of a factory or trait body.
type parsedBody struct {
	calls        []factory.Call
	transients   []factory.Call
	sequences    []parsedSequence
	traits       []parsedTrait
	associations []parsedAssociation
	children     []*parsedFactory
}

type parsedSequence struct {
	name   string
	start  int64
	format string
}

type parsedTrait struct {
	name string
	body *parsedBody
}

type parsedAssociation struct {
	name    string
	options map[string]any
}

// declarationFunc returns the factory body as a replayable declaration
// function. Replaying goes through the proxy, so HCL-declared factories obey
// the same classification and error rules as Go-declared ones.
func (f *parsedFactory) declarationFunc() factory.DeclarationFunc {
	body := f.body
	return func(p *factory.Proxy) { body.replay(p) }
}

func (b *parsedBody) replay(p *factory.Proxy) {
	for _, c := range b.calls {
		if err := p.Apply(c); err != nil {
			return
		}
	}
	if len(b.transients) > 0 {
		calls := b.transients
		p.Transient(func(tp *factory.Proxy) {
			for _, c := range calls {
				if err := tp.Apply(c); err != nil {
					return
				}
			}
		})
	}
	for _, s := range b.sequences {
		p.SequenceFrom(s.name, s.start, sequenceFormat(s.format))
	}
	for _, t := range b.traits {
		body := t.body
		p.Trait(t.name, func(tp *factory.Proxy) { body.replay(tp) })
	}
	for _, a := range b.associations {
		p.Association(a.name, a.options)
	}
	for _, child := range b.children {
		p.Factory(child.name, child.options, child.declarationFunc())
	}
}

// sequenceFormat wraps a printf-style format string into a FormatFunc. An
// empty format yields the raw counter values.
func sequenceFormat(format string) factory.FormatFunc {
	if format == "" {
		return nil
	}
	return func(n int64) any { return fmt.Sprintf(format, n) }
}

// parseFactoryBlock translates a factory block, including its nested factory
// blocks, recursively.
func parseFactoryBlock(block *hcl.Block) (*parsedFactory, error) {
	content, diags := block.Body.Content(factoryBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("in factory %q: %w", block.Labels[0], diags)
	}

	pf := &parsedFactory{name: block.Labels[0], body: &parsedBody{}}

	if attr, ok := content.Attributes["parent"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &pf.options.Parent); diags.HasErrors() {
			return nil, fmt.Errorf("in factory %q: invalid parent: %w", pf.name, diags)
		}
	}
	if attr, ok := content.Attributes["traits"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &pf.options.Traits); diags.HasErrors() {
			return nil, fmt.Errorf("in factory %q: invalid traits: %w", pf.name, diags)
		}
	}
	if attr, ok := content.Attributes["aliases"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &pf.options.Aliases); diags.HasErrors() {
			return nil, fmt.Errorf("in factory %q: invalid aliases: %w", pf.name, diags)
		}
	}

	if err := parseBodyBlocks(pf.name, pf.body, content.Blocks, true); err != nil {
		return nil, err
	}
	return pf, nil
}

// parseBodyBlocks fills a parsedBody from the nested blocks of a factory or
// trait body.
func parseBodyBlocks(owner string, body *parsedBody, blocks hcl.Blocks, allowChildren bool) error {
	for _, nested := range blocks {
		switch nested.Type {
		case "attributes":
			calls, err := attributeCalls(nested.Body)
			if err != nil {
				return fmt.Errorf("in factory %q: %w", owner, err)
			}
			body.calls = append(body.calls, calls...)

		case "transient":
			calls, err := attributeCalls(nested.Body)
			if err != nil {
				return fmt.Errorf("in factory %q transient block: %w", owner, err)
			}
			body.transients = append(body.transients, calls...)

		case "sequence":
			seq, err := parseSequenceBlock(nested)
			if err != nil {
				return fmt.Errorf("in factory %q: %w", owner, err)
			}
			body.sequences = append(body.sequences, seq)

		case "trait":
			content, diags := nested.Body.Content(traitBodySchema)
			if diags.HasErrors() {
				return fmt.Errorf("in factory %q trait %q: %w", owner, nested.Labels[0], diags)
			}
			traitBody := &parsedBody{}
			if err := parseBodyBlocks(owner+"."+nested.Labels[0], traitBody, content.Blocks, false); err != nil {
				return err
			}
			body.traits = append(body.traits, parsedTrait{name: nested.Labels[0], body: traitBody})

		case "association":
			assoc, err := parseAssociationBlock(nested)
			if err != nil {
				return fmt.Errorf("in factory %q: %w", owner, err)
			}
			body.associations = append(body.associations, assoc)

		case "factory":
			if !allowChildren {
				return fmt.Errorf("in factory %q: nested factory blocks are not allowed here", owner)
			}
			child, err := parseFactoryBlock(nested)
			if err != nil {
				return err
			}
			body.children = append(body.children, child)
		}
	}
	return nil
}

// attributeCalls translates an attributes body into declarative calls in
// source order.
func attributeCalls(body hcl.Body) ([]factory.Call, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid attributes block: %w", diags)
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	calls := make([]factory.Call, 0, len(ordered))
	for _, attr := range ordered {
		call, err := translateAttribute(attr.Name, attr.Expr)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// translateAttribute converts one HCL attribute into a declarative call. An
// expression referencing sibling attributes becomes a dynamic declaration;
// everything else is evaluated now and classified by value shape.
func translateAttribute(name string, expr hcl.Expression) (factory.Call, error) {
	if len(expr.Variables()) > 0 {
		return factory.Call{Name: name, Fn: dynamicFunc(expr)}, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return factory.Call{}, fmt.Errorf("invalid value for attribute %q: %w", name, diags)
	}
	if val.IsNull() {
		// A bare null is an implicit reference: no arguments, no function.
		return factory.Call{Name: name}, nil
	}
	goVal, err := ctyToNative(val)
	if err != nil {
		return factory.Call{}, fmt.Errorf("attribute %q: %w", name, err)
	}
	return factory.Call{Name: name, Args: []any{goVal}}, nil
}

// dynamicFunc defers expression evaluation to build time. Each root
// traversal name is resolved through the build context, so attributes may
// reference siblings, transient values, sequences and associations declared
// under the referenced name.
func dynamicFunc(expr hcl.Expression) decl.DynamicFunc {
	return func(ctx decl.Context) (any, error) {
		vars := make(map[string]cty.Value)
		for _, traversal := range expr.Variables() {
			root := traversal.RootName()
			if _, done := vars[root]; done {
				continue
			}
			v, err := ctx.Attr(root)
			if err != nil {
				return nil, err
			}
			cv, err := nativeToCty(v)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", root, err)
			}
			vars[root] = cv
		}
		val, diags := expr.Value(&hcl.EvalContext{Variables: vars})
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating attribute expression: %w", diags)
		}
		return ctyToNative(val)
	}
}

// parseSequenceBlock decodes a sequence block: an optional numeric start and
// an optional printf-style format.
func parseSequenceBlock(block *hcl.Block) (parsedSequence, error) {
	seq := parsedSequence{name: block.Labels[0], start: 1}

	content, diags := block.Body.Content(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "start"},
			{Name: "format"},
		},
	})
	if diags.HasErrors() {
		return seq, fmt.Errorf("in sequence %q: %w", seq.name, diags)
	}

	if attr, ok := content.Attributes["start"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &seq.start); diags.HasErrors() {
			return seq, fmt.Errorf("in sequence %q: invalid start: %w", seq.name, diags)
		}
	}
	if attr, ok := content.Attributes["format"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &seq.format); diags.HasErrors() {
			return seq, fmt.Errorf("in sequence %q: invalid format: %w", seq.name, diags)
		}
	}
	return seq, nil
}

// parseAssociationBlock decodes an association block. The "factory"
// attribute names the target factory; every other attribute becomes an
// override for the associated build.
func parseAssociationBlock(block *hcl.Block) (parsedAssociation, error) {
	assoc := parsedAssociation{name: block.Labels[0], options: make(map[string]any)}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return assoc, fmt.Errorf("in association %q: %w", assoc.name, diags)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return assoc, fmt.Errorf("in association %q: invalid value for %q: %w", assoc.name, name, diags)
		}
		goVal, err := ctyToNative(val)
		if err != nil {
			return assoc, fmt.Errorf("in association %q attribute %q: %w", assoc.name, name, err)
		}
		assoc.options[name] = goVal
	}
	return assoc, nil
}
