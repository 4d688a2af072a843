package utils

func StringToPointer(s string) *string {
	return &s
}

func Float32ToPointer(f float32) *float32 {
	return &f
}
