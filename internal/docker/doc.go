// Package docker drives an environment's containers through the docker CLI.
//
// Compose wraps `docker compose -f <docker-XX>/docker-compose.yml` for
// whole-environment operations and `docker exec`/`docker cp` for working
// inside a single container:
//
//	c := docker.NewCompose(executor, env)
//	if err := c.Up(ctx, true); err != nil {
//	    return err
//	}
//	out, err := c.Exec(ctx, docker.ExecOptions{Command: "vendor/bin/sake dev/build"})
package docker
