// @title           EduHealth API
// @version         1.0
// @description     Learning and wellness platform backend.
// @contact.name    EduHealth
// @contact.email   support@eduhealth.app
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "eduhealth_backend/internal/app"

func main() {
	app.Run()
}
