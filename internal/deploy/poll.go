package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-sitebuilder/internal/hosting"
)

// TimeoutError reports that build polling exceeded its bound. The build is
// still running remotely; this is not a build failure.
type TimeoutError struct {
	DeployID string
	Waited   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("deploy %s still running after %s, check later", e.DeployID, e.Waited)
}

// BuildError reports a build that reached the error state remotely.
type BuildError struct {
	DeployID string
	Message  string
}

func (e *BuildError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("deploy %s failed remotely", e.DeployID)
	}
	return fmt.Sprintf("deploy %s failed: %s", e.DeployID, e.Message)
}

// pollDeploy polls the host at a fixed interval until the deploy reaches a
// terminal state or the timeout elapses. The timeout is the guaranteed exit
// even when the caller's context is never cancelled.
func pollDeploy(ctx context.Context, client hosting.Client, deployID string, interval, timeout time.Duration, sleep func(ctx context.Context, d time.Duration) error) (*hosting.Deployment, error) {
	var waited time.Duration

	for {
		deployment, err := client.GetDeploy(ctx, deployID)
		if err == nil {
			switch deployment.State {
			case hosting.DeployReady:
				return deployment, nil
			case hosting.DeployError:
				return nil, &BuildError{DeployID: deployID, Message: deployment.ErrorMessage}
			}
		} else if !hosting.IsRetryable(err) {
			return nil, err
		}

		if waited+interval > timeout {
			return nil, &TimeoutError{DeployID: deployID, Waited: timeout}
		}
		if err := sleep(ctx, interval); err != nil {
			return nil, err
		}
		waited += interval
	}
}
