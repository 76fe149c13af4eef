package main

import "github.com/architeacher/reporting/services/svc-reporting/internal/runtime"

func main() {
	runtime.New().Run()
}
