package policy

// GetBuiltinPolicies returns all built-in policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		recognizedPropertyPolicy(),
		numericHoursPolicy(),
		emptyValuePolicy(),
	}
}

// recognizedPropertyPolicy blocks writes to property names outside the
// configured allowlist.
func recognizedPropertyPolicy() Policy {
	return Policy{
		Name:        "recognized-property",
		Description: "Suggestions may only target configured property names",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"properties"},
		Rego: `package partforge.policies.properties

import rego.v1

deny contains violation if {
	input.suggestion
	name := input.suggestion.name
	name != ""
	count(input.recognized_properties) > 0
	not recognized(name)
	violation := {
		"message": sprintf("property '%s' is not a recognized property name", [name]),
		"severity": "error",
		"property": name,
	}
}

recognized(name) if {
	some p in input.recognized_properties
	lower(p) == lower(name)
}
`,
	}
}

// numericHoursPolicy blocks setup/run hour suggestions whose values are
// not non-negative numbers.
func numericHoursPolicy() Policy {
	return Policy{
		Name:        "numeric-hours",
		Description: "Setup and run hour properties must carry non-negative numeric values",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"workcenters"},
		Rego: `package partforge.policies.hours

import rego.v1

deny contains violation if {
	input.suggestion
	name := input.suggestion.name
	hours_property(name)
	not regex.match("^\\s*-?[0-9]+(\\.[0-9]+)?\\s*$", input.suggestion.value)
	violation := {
		"message": sprintf("property '%s' value '%s' is not numeric", [name, input.suggestion.value]),
		"severity": "error",
		"property": name,
	}
}

deny contains violation if {
	input.suggestion
	name := input.suggestion.name
	hours_property(name)
	to_number(trim_space(input.suggestion.value)) < 0
	violation := {
		"message": sprintf("property '%s' value '%s' is negative", [name, input.suggestion.value]),
		"severity": "error",
		"property": name,
	}
}

hours_property(name) if {
	endswith(upper(name), "_S")
}

hours_property(name) if {
	endswith(upper(name), "_R")
}
`,
	}
}

// emptyValuePolicy warns on suggestions carrying no value at all; the
// writeback executor would still apply them, clearing the property.
func emptyValuePolicy() Policy {
	return Policy{
		Name:        "empty-value",
		Description: "Flags suggestions with empty values",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"properties"},
		Rego: `package partforge.policies.values

import rego.v1

deny contains violation if {
	input.suggestion
	input.suggestion.name != ""
	trim_space(input.suggestion.value) == ""
	violation := {
		"message": sprintf("property '%s' suggestion has an empty value", [input.suggestion.name]),
		"severity": "warning",
		"property": input.suggestion.name,
	}
}
`,
	}
}
