package assemble

// runtimeScript is the fixed client runtime shipped with every page: toast
// notifications, a button-action dispatch table, dynamic checkout-field
// rendering, and a mutation observer that re-binds handlers after the DOM
// changes. It carries no page-specific state, so the file hashes identically
// across publishes.
const runtimeScript = `(function () {
  'use strict';

  // --- toast notifications -------------------------------------------------
  function showToast(message, kind) {
    var region = document.querySelector('[data-toast-region]');
    if (!region) {
      region = document.createElement('div');
      region.setAttribute('data-toast-region', '');
      region.setAttribute('role', 'status');
      region.style.cssText = 'position:fixed;bottom:1rem;right:1rem;z-index:9999;display:flex;flex-direction:column;gap:.5rem;';
      document.body.appendChild(region);
    }
    var toast = document.createElement('div');
    toast.textContent = message;
    toast.style.cssText = 'padding:.75rem 1rem;border-radius:.375rem;color:#fff;box-shadow:0 2px 8px rgba(0,0,0,.2);background:' +
      (kind === 'error' ? '#dc2626' : '#16a34a') + ';';
    region.appendChild(toast);
    setTimeout(function () { toast.remove(); }, 4000);
  }

  // --- action dispatch -----------------------------------------------------
  var actions = {
    scroll_to: function (config) {
      var target = config.target && document.querySelector(config.target);
      if (target) target.scrollIntoView({ behavior: 'smooth' });
    },
    open_link: function (config) {
      if (!config.url) return;
      if (config.newTab) {
        window.open(config.url, '_blank', 'noopener');
      } else {
        window.location.href = config.url;
      }
    },
    checkout: function (config) {
      if (config.productId) openCheckout(config.productId);
    },
    track_event: function (config) {
      try {
        if (window.fbq && config.facebookEvent) fbq('track', config.facebookEvent);
        if (window.gtag && config.googleEvent) gtag('event', config.googleEvent);
      } catch (err) { /* analytics must never break the page */ }
    }
  };

  function dispatch(el) {
    var raw = el.getAttribute('data-action');
    if (!raw) return;
    var config;
    try {
      config = JSON.parse(raw);
    } catch (err) {
      return;
    }
    var handler = actions[config.type];
    if (handler) handler(config);
  }

  // --- checkout ------------------------------------------------------------
  function openCheckout(productId) {
    fetch('/api/products/' + encodeURIComponent(productId) + '/checkout-fields')
      .then(function (res) {
        if (!res.ok) throw new Error('checkout fields unavailable');
        return res.json();
      })
      .then(function (fields) { renderCheckoutForm(productId, fields); })
      .catch(function () { showToast('Checkout is temporarily unavailable.', 'error'); });
  }

  function renderCheckoutForm(productId, fields) {
    var existing = document.querySelector('[data-checkout-modal]');
    if (existing) existing.remove();

    var overlay = document.createElement('div');
    overlay.setAttribute('data-checkout-modal', '');
    overlay.style.cssText = 'position:fixed;inset:0;background:rgba(0,0,0,.5);display:flex;align-items:center;justify-content:center;z-index:9998;';

    var form = document.createElement('form');
    form.style.cssText = 'background:#fff;padding:1.5rem;border-radius:.5rem;min-width:20rem;display:flex;flex-direction:column;gap:.75rem;';
    (fields || []).forEach(function (field) {
      var input = document.createElement('input');
      input.name = field.name;
      input.type = field.type || 'text';
      input.placeholder = field.label || field.name;
      input.required = !!field.required;
      form.appendChild(input);
    });

    var submit = document.createElement('button');
    submit.type = 'submit';
    submit.textContent = 'Complete purchase';
    form.appendChild(submit);

    form.addEventListener('submit', function (event) {
      event.preventDefault();
      var payload = {};
      new FormData(form).forEach(function (value, key) { payload[key] = value; });
      fetch('/api/products/' + encodeURIComponent(productId) + '/checkout', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify(payload)
      })
        .then(function (res) {
          if (!res.ok) throw new Error('checkout failed');
          showToast('Order received. Check your email for confirmation.');
          overlay.remove();
        })
        .catch(function () { showToast('Something went wrong. Please try again.', 'error'); });
    });

    overlay.addEventListener('click', function (event) {
      if (event.target === overlay) overlay.remove();
    });
    overlay.appendChild(form);
    document.body.appendChild(overlay);
  }

  // --- binding -------------------------------------------------------------
  function bind(root) {
    root.querySelectorAll('[data-action]').forEach(function (el) {
      if (el.hasAttribute('data-action-bound')) return;
      el.setAttribute('data-action-bound', '');
      el.addEventListener('click', function (event) {
        event.preventDefault();
        dispatch(el);
      });
    });
  }

  document.addEventListener('DOMContentLoaded', function () {
    bind(document);

    // Re-bind after dynamic content changes.
    new MutationObserver(function (mutations) {
      mutations.forEach(function (mutation) {
        mutation.addedNodes.forEach(function (node) {
          if (node.nodeType === 1) bind(node);
        });
      });
    }).observe(document.body, { childList: true, subtree: true });
  });
})();
`
