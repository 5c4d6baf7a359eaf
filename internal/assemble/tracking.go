package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

var facebookPixelPattern = regexp.MustCompile(`^\d{15,16}$`)

// validTracking drops any tracking id that fails format validation, logging a
// warning for each. A bad id never blocks output.
func validTracking(tracking pagemodel.TrackingConfig, logger interfaces.Logger) pagemodel.TrackingConfig {
	out := pagemodel.TrackingConfig{}

	if id := strings.TrimSpace(tracking.FacebookPixelID); id != "" {
		if facebookPixelPattern.MatchString(id) {
			out.FacebookPixelID = id
		} else {
			logger.Warn("dropping invalid facebook pixel id", "id", id)
		}
	}

	if id := strings.TrimSpace(tracking.GoogleAnalyticsID); id != "" {
		if strings.HasPrefix(id, "G-") {
			out.GoogleAnalyticsID = id
		} else {
			logger.Warn("dropping invalid google analytics id", "id", id)
		}
	}

	if id := strings.TrimSpace(tracking.ClarityID); id != "" {
		if len(id) >= 8 {
			out.ClarityID = id
		} else {
			logger.Warn("dropping invalid clarity id", "id", id)
		}
	}

	return out
}

// trackingScripts renders the script tags for every tracking id that
// survived validation.
func trackingScripts(tracking pagemodel.TrackingConfig) string {
	var builder strings.Builder

	if tracking.FacebookPixelID != "" {
		fmt.Fprintf(&builder, `  <script>
    !function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?
    n.callMethod.apply(n,arguments):n.queue.push(arguments)};if(!f._fbq)f._fbq=n;
    n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;
    t.src=v;s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,
    document,'script','https://connect.facebook.net/en_US/fbevents.js');
    fbq('init', '%s');
    fbq('track', 'PageView');
  </script>
`, tracking.FacebookPixelID)
	}

	if tracking.GoogleAnalyticsID != "" {
		fmt.Fprintf(&builder, `  <script async src="https://www.googletagmanager.com/gtag/js?id=%s"></script>
  <script>
    window.dataLayer = window.dataLayer || [];
    function gtag(){dataLayer.push(arguments);}
    gtag('js', new Date());
    gtag('config', '%s');
  </script>
`, tracking.GoogleAnalyticsID, tracking.GoogleAnalyticsID)
	}

	if tracking.ClarityID != "" {
		fmt.Fprintf(&builder, `  <script>
    (function(c,l,a,r,i,t,y){
      c[a]=c[a]||function(){(c[a].q=c[a].q||[]).push(arguments)};
      t=l.createElement(r);t.async=1;t.src="https://www.clarity.ms/tag/"+i;
      y=l.getElementsByTagName(r)[0];y.parentNode.insertBefore(t,y);
    })(window, document, "clarity", "script", "%s");
  </script>
`, tracking.ClarityID)
	}

	return builder.String()
}
