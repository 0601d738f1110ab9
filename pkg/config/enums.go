package config

import (
	"fmt"
	"strings"
)

// Policy picks a move on a board, used for the simulations and for the black side
type Policy uint8

const (
	PolicyRandom Policy = iota
	PolicyHeuristic
	// Ask the oracle for the best move
	PolicyPerfect
)

var policyNames = [...]string{
	PolicyRandom:    "random",
	PolicyHeuristic: "heuristic",
	PolicyPerfect:   "perfect",
}

func (p Policy) valid() bool {
	return int(p) < len(policyNames)
}

func (p Policy) String() string {
	if !p.valid() {
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
	return policyNames[p]
}

func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if name == s {
			return Policy(p), nil
		}
	}
	return PolicyRandom, &InvalidConfigurationError{Field: "policy", Reason: fmt.Sprintf("unknown policy %q", s)}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Choice is how white picks the move to play among the root's children
type Choice uint8

const (
	ChoiceRandom Choice = iota
	ChoiceMaxVisits
	ChoiceMaxUCT
)

var choiceNames = [...]string{
	ChoiceRandom:    "random",
	ChoiceMaxVisits: "max_visits",
	ChoiceMaxUCT:    "max_uct",
}

func (c Choice) valid() bool {
	return int(c) < len(choiceNames)
}

func (c Choice) String() string {
	if !c.valid() {
		return fmt.Sprintf("Choice(%d)", uint8(c))
	}
	return choiceNames[c]
}

func ParseChoice(s string) (Choice, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range choiceNames {
		if name == s {
			return Choice(c), nil
		}
	}
	return ChoiceRandom, &InvalidConfigurationError{Field: "choice", Reason: fmt.Sprintf("unknown choice %q", s)}
}

func (c Choice) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Choice) UnmarshalText(text []byte) error {
	v, err := ParseChoice(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
