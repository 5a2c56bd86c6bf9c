package conditions

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Status returns the status of the named condition from an unstructured
// object's status.conditions, or "" when the condition is absent or the
// object carries no conditions.
func Status(obj *unstructured.Unstructured, conditionType string) string {
	items, found, err := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if err != nil || !found {
		return ""
	}

	for _, item := range items {
		cond, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if cond["type"] == conditionType {
			if status, ok := cond["status"].(string); ok {
				return status
			}

			return ""
		}
	}

	return ""
}

// IsTrue reports whether the named condition has status "True".
func IsTrue(obj *unstructured.Unstructured, conditionType string) bool {
	return Status(obj, conditionType) == "True"
}
