// Package generator renders the files that make up an environment.
//
// Two trees are produced:
//
//   - the docker directory (docker-XX/): docker-compose.yml, built from a
//     typed document and marshalled to YAML, plus the web server Dockerfile
//     and Apache virtual host rendered from embedded templates
//   - the web root: the framework's .env file
//
// Every template under templates/docker and templates/webroot is rendered
// with TemplateData; the ".tmpl" extension is dropped from the output name.
//
//	data := generator.NewTemplateData(env, generator.Options{
//	    Database:   "mysql",
//	    DBVersion:  "8.0",
//	    PHPVersion: "8.3",
//	})
//	err := generator.New(fs).RenderDockerDir(env.DockerDir(), data)
package generator
