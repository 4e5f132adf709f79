package models

// BucketKey namespaces a subject (owner ID or client IP) by class.
func BucketKey(class EndpointClass, kind, subject string) string {
	return "rl:" + string(class) + ":" + kind + ":" + subject
}
